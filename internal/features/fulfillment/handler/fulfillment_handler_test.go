package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"shipment-relay/internal/features/fulfillment/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInspector struct {
	mock.Mock
}

func (m *mockInspector) Inspect(ctx context.Context, orderName string) (*domain.Inspection, error) {
	args := m.Called(ctx, orderName)
	if v := args.Get(0); v != nil {
		return v.(*domain.Inspection), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestApp(inspector Inspector) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/orders/:name/fulfillment", NewFulfillmentHandler(inspector).GetFulfillment)
	return app
}

// TestGetFulfillment_Success verifies the inspection view and that the encoded "#" is decoded.
func TestGetFulfillment_Success(t *testing.T) {
	inspector := new(mockInspector)
	view := &domain.Inspection{OrderName: "#1001", OrderID: 1, FulfillmentOrderID: 11, Capabilities: []string{"hold"}}
	inspector.On("Inspect", mock.Anything, "#1001").Return(view, nil)

	resp, err := newTestApp(inspector).Test(httptest.NewRequest("GET", "/orders/%231001/fulfillment", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got domain.Inspection
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, *view, got)
	inspector.AssertExpectations(t)
}

// TestGetFulfillment_NotFound verifies NotFound maps to 404 with the ray id.
func TestGetFulfillment_NotFound(t *testing.T) {
	inspector := new(mockInspector)
	inspector.On("Inspect", mock.Anything, "9999").
		Return(nil, fmt.Errorf("%w: #9999", domain.ErrOrderNotFound))

	resp, err := newTestApp(inspector).Test(httptest.NewRequest("GET", "/orders/9999/fulfillment", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Message, "order not found")
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestGetFulfillment_RemoteFailure verifies transport failures map to 502.
func TestGetFulfillment_RemoteFailure(t *testing.T) {
	inspector := new(mockInspector)
	inspector.On("Inspect", mock.Anything, "1001").Return(nil, errors.New("connection reset"))

	resp, err := newTestApp(inspector).Test(httptest.NewRequest("GET", "/orders/1001/fulfillment", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

// TestGetFulfillment_BlankName verifies that a blank name never reaches the platform.
func TestGetFulfillment_BlankName(t *testing.T) {
	inspector := new(mockInspector)

	resp, err := newTestApp(inspector).Test(httptest.NewRequest("GET", "/orders/%20/fulfillment", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	inspector.AssertNotCalled(t, "Inspect", mock.Anything, mock.Anything)
}

// TestGetFulfillment_PlatformOutage verifies that a platform error behind a not-found lookup is a 502.
func TestGetFulfillment_PlatformOutage(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected int
	}{
		{name: "ServerError", status: 503, expected: fiber.StatusBadGateway},
		{name: "Unauthorized", status: 401, expected: fiber.StatusBadGateway},
		{name: "RateLimited", status: 429, expected: fiber.StatusBadGateway},
		{name: "NotFound", status: 404, expected: fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &domain.APIError{Operation: "search orders", StatusCode: tt.status}
			inspector := new(mockInspector)
			inspector.On("Inspect", mock.Anything, "1001").
				Return(nil, fmt.Errorf("%w: #1001 (%w)", domain.ErrOrderNotFound, apiErr))

			resp, err := newTestApp(inspector).Test(httptest.NewRequest("GET", "/orders/1001/fulfillment", nil))

			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}
