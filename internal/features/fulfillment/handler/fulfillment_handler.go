package handler

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"shipment-relay/internal/features/fulfillment/domain"

	"github.com/gofiber/fiber/v2"
)

// Inspector reads the fulfillment state of an order without changing it.
type Inspector interface {
	Inspect(ctx context.Context, orderName string) (*domain.Inspection, error)
}

// FulfillmentHandler handles the operator endpoints of the fulfillment feature.
type FulfillmentHandler struct {
	inspector Inspector
}

// NewFulfillmentHandler creates a new FulfillmentHandler.
func NewFulfillmentHandler(inspector Inspector) *FulfillmentHandler {
	return &FulfillmentHandler{inspector: inspector}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// GetFulfillment godoc
// @Summary Inspect the fulfillment state of an order
// @Description Resolves the order and its fulfillment order and returns the capabilities the platform currently reports. Nothing is changed.
// @Tags fulfillment
// @Produce json
// @Param name path string true "Order name, with or without the leading #"
// @Success 200 {object} domain.Inspection
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /orders/{name}/fulfillment [get]
func (h *FulfillmentHandler) GetFulfillment(c *fiber.Ctx) error {
	rayID, _ := c.Locals("requestid").(string)

	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || strings.TrimSpace(name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "order name is required",
			RayID:   rayID,
		})
	}

	view, err := h.inspector.Inspect(c.UserContext(), name)
	if err != nil {
		if remoteFailure(err) {
			return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID,
			})
		}

		if domain.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: err.Error(),
				RayID:   rayID,
			})
		}

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	return c.JSON(view)
}

// remoteFailure reports whether the platform itself failed, even when the lookup
// classified the outcome as not found.
func remoteFailure(err error) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode != fiber.StatusNotFound
}
