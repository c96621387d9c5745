package service

import (
	"context"
	"errors"
	"fmt"

	"shipment-relay/internal/features/fulfillment/domain"
	"shipment-relay/internal/features/fulfillment/ports"
)

// ResourceResolver maps a human-readable order name to the platform's order and fulfillment order ids.
// Nothing is cached: every call reads the platform.
type ResourceResolver struct {
	finder ports.OrderFinder
}

// NewResourceResolver creates a new ResourceResolver.
func NewResourceResolver(finder ports.OrderFinder) *ResourceResolver {
	return &ResourceResolver{finder: finder}
}

// ResolveOrderID returns the id of the first order whose display name matches orderName.
// The platform does not guarantee unique names, so the first match wins regardless of order status.
// Non-2xx responses and empty results yield ErrOrderNotFound; transport failures are returned as-is.
func (r *ResourceResolver) ResolveOrderID(ctx context.Context, orderName string) (int64, error) {
	name := domain.NormalizeOrderName(orderName)
	if name == "" {
		return 0, fmt.Errorf("%w: empty order name", domain.ErrOrderNotFound)
	}

	orders, err := r.finder.FindOrdersByName(ctx, name)
	if err != nil {
		return 0, notFoundOnAPIError(err, domain.ErrOrderNotFound, name)
	}
	if len(orders) == 0 {
		return 0, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, name)
	}

	return orders[0].ID, nil
}

// ResolveFulfillmentOrderID returns the first fulfillment order of the order.
// Split shipments are not disambiguated.
func (r *ResourceResolver) ResolveFulfillmentOrderID(ctx context.Context, orderID int64) (int64, error) {
	fos, err := r.finder.ListFulfillmentOrders(ctx, orderID)
	if err != nil {
		return 0, notFoundOnAPIError(err, domain.ErrFulfillmentOrderNotFound, fmt.Sprintf("order %d", orderID))
	}
	if len(fos) == 0 {
		return 0, fmt.Errorf("%w: order %d", domain.ErrFulfillmentOrderNotFound, orderID)
	}

	return fos[0].ID, nil
}

// Resolve runs both lookups for orderName.
func (r *ResourceResolver) Resolve(ctx context.Context, orderName string) (domain.Target, error) {
	orderID, err := r.ResolveOrderID(ctx, orderName)
	if err != nil {
		return domain.Target{}, err
	}

	foID, err := r.ResolveFulfillmentOrderID(ctx, orderID)
	if err != nil {
		return domain.Target{}, err
	}

	return domain.Target{
		OrderName:          domain.NormalizeOrderName(orderName),
		OrderID:            orderID,
		FulfillmentOrderID: foID,
	}, nil
}

// notFoundOnAPIError turns a non-2xx platform response into sentinel, keeping the cause in the chain.
func notFoundOnAPIError(err error, sentinel error, subject string) error {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s (%w)", sentinel, subject, err)
	}
	return fmt.Errorf("resolve %s: %w", subject, err)
}
