package ports

import (
	"context"

	"shipment-relay/internal/features/fulfillment/domain"
)

// OrderFinder looks up orders and their fulfillment orders.
// Implementations return *domain.APIError for non-2xx responses.
type OrderFinder interface {
	// FindOrdersByName returns orders whose display name matches, in platform order.
	FindOrdersByName(ctx context.Context, name string) ([]domain.OrderRef, error)
	// ListFulfillmentOrders returns the fulfillment orders of an order, in platform order.
	ListFulfillmentOrders(ctx context.Context, orderID int64) ([]domain.FulfillmentOrder, error)
}

// FulfillmentOrderReader reads a single fulfillment order including its capability list.
type FulfillmentOrderReader interface {
	GetFulfillmentOrder(ctx context.Context, fulfillmentOrderID int64) (*domain.FulfillmentOrder, error)
}

// HoldGateway applies and lifts holds on fulfillment orders.
type HoldGateway interface {
	HoldFulfillmentOrder(ctx context.Context, fulfillmentOrderID int64, hold domain.HoldRequest) error
	ReleaseFulfillmentOrderHold(ctx context.Context, fulfillmentOrderID int64) error
}

// FulfillmentGateway reads and writes the fulfillments of an order.
type FulfillmentGateway interface {
	ListFulfillments(ctx context.Context, orderID int64) ([]domain.Fulfillment, error)
	CreateFulfillment(ctx context.Context, req domain.NewFulfillment) (*domain.Fulfillment, error)
	UpdateFulfillmentTracking(ctx context.Context, fulfillmentID int64, update domain.TrackingUpdate) error
}

// OrderPlatform is the full order-management surface the relay drives.
// This is a Secondary Port (Driven Port).
type OrderPlatform interface {
	OrderFinder
	FulfillmentOrderReader
	HoldGateway
	FulfillmentGateway
}
