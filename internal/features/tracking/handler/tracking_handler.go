package handler

import (
	"context"
	"errors"

	"shipment-relay/internal/features/tracking/domain"

	"github.com/gofiber/fiber/v2"
)

// HistoryReader retrieves carrier tracking histories.
type HistoryReader interface {
	GetTrackingHistory(ctx context.Context, trackingNumber string) (*domain.TrackingHistory, error)
}

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	trackingService HistoryReader
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService HistoryReader) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// GetTrackingHistory godoc
// @Summary Get tracking history for a parcel
// @Description Retrieves the carrier status and dated events for a tracking number
// @Tags tracking
// @Produce json
// @Param number path string true "Tracking Number"
// @Success 200 {object} domain.TrackingHistory
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /tracking/{number} [get]
func (h *TrackingHandler) GetTrackingHistory(c *fiber.Ctx) error {
	rayID, _ := c.Locals("requestid").(string)

	history, err := h.trackingService.GetTrackingHistory(c.UserContext(), c.Params("number"))
	if err != nil {
		if errors.Is(err, domain.ErrTrackingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "tracking number not found",
				RayID:   rayID,
			})
		}

		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	return c.JSON(history)
}
