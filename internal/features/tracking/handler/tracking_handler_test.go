package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"shipment-relay/internal/features/tracking/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHistoryReader returns a fixed history or error.
type stubHistoryReader struct {
	returnHistory *domain.TrackingHistory
	returnError   error
	requested     string
}

func (s *stubHistoryReader) GetTrackingHistory(_ context.Context, trackingNumber string) (*domain.TrackingHistory, error) {
	s.requested = trackingNumber
	if s.returnError != nil {
		return nil, s.returnError
	}
	return s.returnHistory, nil
}

func newTestApp(reader HistoryReader) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/tracking/:number", NewTrackingHandler(reader).GetTrackingHistory)
	return app
}

// TestTrackingHandler_GetTrackingHistory_Success verifies successful tracking retrieval.
func TestTrackingHandler_GetTrackingHistory_Success(t *testing.T) {
	reader := &stubHistoryReader{returnHistory: &domain.TrackingHistory{
		TrackingNumber: "620001",
		Status:         "out_for_delivery",
		GlobalStatus:   domain.TrackingStatusInTransit,
		History:        []domain.TrackingEvent{},
	}}

	resp, err := newTestApp(reader).Test(httptest.NewRequest("GET", "/tracking/620001", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "620001", reader.requested)

	var result domain.TrackingHistory
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.TrackingStatusInTransit, result.GlobalStatus)
	assert.Equal(t, "out_for_delivery", result.Status)
}

// TestTrackingHandler_GetTrackingHistory_NotFound verifies unknown parcels map to 404.
func TestTrackingHandler_GetTrackingHistory_NotFound(t *testing.T) {
	reader := &stubHistoryReader{returnError: domain.ErrTrackingNotFound}

	resp, err := newTestApp(reader).Test(httptest.NewRequest("GET", "/tracking/X", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "tracking number not found", errResp.Message)
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestTrackingHandler_GetTrackingHistory_CarrierFailure verifies carrier failures map to 502.
func TestTrackingHandler_GetTrackingHistory_CarrierFailure(t *testing.T) {
	reader := &stubHistoryReader{returnError: errors.New("inpost API returned status: 500")}

	resp, err := newTestApp(reader).Test(httptest.NewRequest("GET", "/tracking/620001", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

// TestTrackingHandler_GetTrackingHistory_MissingTrackingNumber verifies the route requires a number.
func TestTrackingHandler_GetTrackingHistory_MissingTrackingNumber(t *testing.T) {
	resp, err := newTestApp(&stubHistoryReader{}).Test(httptest.NewRequest("GET", "/tracking/", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
