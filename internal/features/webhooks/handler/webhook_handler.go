package handler

import (
	"context"
	"crypto/subtle"

	"shipment-relay/internal/features/webhooks/domain"

	"github.com/gofiber/fiber/v2"
)

// SecretHeader carries the shared webhook secret.
const SecretHeader = "X-Webhook-Secret"

// EventDispatcher handles decoded carrier events.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event domain.Event) domain.Outcome
}

// WebhookHandler receives carrier webhooks.
type WebhookHandler struct {
	dispatcher EventDispatcher
	secret     string
}

// NewWebhookHandler creates a new WebhookHandler. An empty secret disables the header check.
func NewWebhookHandler(dispatcher EventDispatcher, secret string) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, secret: secret}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// HandleInPost godoc
// @Summary Receive an InPost ShipX webhook
// @Description Holds the order when the label is created and fulfills it once the parcel reaches the sorting center. A 500 asks the carrier to redeliver.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string false "Shared secret, when configured"
// @Param event body domain.Event true "ShipX webhook envelope"
// @Success 200 {object} domain.Outcome
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} domain.Outcome
// @Router /webhooks/inpost [post]
func (h *WebhookHandler) HandleInPost(c *fiber.Ctx) error {
	rayID, _ := c.Locals("requestid").(string)

	if h.secret != "" && subtle.ConstantTimeCompare([]byte(c.Get(SecretHeader)), []byte(h.secret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Message: "invalid webhook secret",
			RayID:   rayID,
		})
	}

	var event domain.Event
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "malformed webhook body",
			RayID:   rayID,
		})
	}
	if err := event.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	outcome := h.dispatcher.Dispatch(c.UserContext(), event)
	if outcome.Result == domain.ResultFailed {
		return c.Status(fiber.StatusInternalServerError).JSON(outcome)
	}

	return c.JSON(outcome)
}
