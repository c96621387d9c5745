package service

import (
	"context"
	"errors"

	"shipment-relay/internal/features/fulfillment/domain"
)

// fakeUpdate records one UpdateFulfillmentTracking call.
type fakeUpdate struct {
	fulfillmentID int64
	update        domain.TrackingUpdate
}

// fakePlatform is an in-memory order platform that mimics how fulfillment orders
// change their supported actions as they are held, released and fulfilled.
type fakePlatform struct {
	orders            []domain.OrderRef
	fulfillmentOrders map[int64][]domain.FulfillmentOrder
	capabilities      map[int64]domain.CapabilitySet
	fulfillments      map[int64][]domain.Fulfillment

	searchErr       error
	listFOErr       error
	probeErr        error
	holdErr         error
	releaseErr      error
	listFulfillErr  error
	createErr       error
	updateErr       error
	closeOnFulfill  bool
	closed          map[int64]bool
	nextFulfillment int64

	searched []string
	probes   int
	holds    []int64
	releases []int64
	creates  []domain.NewFulfillment
	updates  []fakeUpdate
}

// newFakePlatform returns a platform holding order #1001 (id 1) with fulfillment order 11.
func newFakePlatform(caps ...string) *fakePlatform {
	return &fakePlatform{
		orders: []domain.OrderRef{{ID: 1, Name: "#1001"}},
		fulfillmentOrders: map[int64][]domain.FulfillmentOrder{
			1: {{ID: 11, OrderID: 1, Status: "open"}},
		},
		capabilities: map[int64]domain.CapabilitySet{
			11: domain.NewCapabilitySet(caps...),
		},
		fulfillments:    map[int64][]domain.Fulfillment{},
		closed:          map[int64]bool{},
		closeOnFulfill:  true,
		nextFulfillment: 100,
	}
}

func (f *fakePlatform) writes() int {
	return len(f.holds) + len(f.releases) + len(f.creates) + len(f.updates)
}

func (f *fakePlatform) notifications() int {
	n := 0
	for _, c := range f.creates {
		if c.NotifyCustomer {
			n++
		}
	}
	for _, u := range f.updates {
		if u.update.NotifyCustomer {
			n++
		}
	}
	return n
}

func (f *fakePlatform) FindOrdersByName(_ context.Context, name string) ([]domain.OrderRef, error) {
	f.searched = append(f.searched, name)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out []domain.OrderRef
	for _, o := range f.orders {
		if o.Name == name {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakePlatform) ListFulfillmentOrders(_ context.Context, orderID int64) ([]domain.FulfillmentOrder, error) {
	if f.listFOErr != nil {
		return nil, f.listFOErr
	}
	return f.fulfillmentOrders[orderID], nil
}

func (f *fakePlatform) GetFulfillmentOrder(_ context.Context, id int64) (*domain.FulfillmentOrder, error) {
	f.probes++
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	caps, ok := f.capabilities[id]
	if !ok {
		return nil, &domain.APIError{Operation: "get fulfillment order", StatusCode: 404}
	}
	// Copy so callers never observe later mutations.
	var snapshot domain.CapabilitySet
	if caps != nil {
		snapshot = domain.NewCapabilitySet(caps.List()...)
	}
	return &domain.FulfillmentOrder{ID: id, Capabilities: snapshot}, nil
}

func (f *fakePlatform) HoldFulfillmentOrder(_ context.Context, id int64, _ domain.HoldRequest) error {
	f.holds = append(f.holds, id)
	if f.holdErr != nil {
		return f.holdErr
	}
	if f.closed[id] {
		return &domain.APIError{Operation: "hold fulfillment order", StatusCode: 422, Body: `{"errors":["The fulfillment order is closed"]}`}
	}
	f.capabilities[id] = domain.NewCapabilitySet("release_hold")
	return nil
}

func (f *fakePlatform) ReleaseFulfillmentOrderHold(_ context.Context, id int64) error {
	f.releases = append(f.releases, id)
	if f.releaseErr != nil {
		return f.releaseErr
	}
	f.capabilities[id] = domain.NewCapabilitySet("hold", "create_fulfillment", "move")
	return nil
}

func (f *fakePlatform) ListFulfillments(_ context.Context, orderID int64) ([]domain.Fulfillment, error) {
	if f.listFulfillErr != nil {
		return nil, f.listFulfillErr
	}
	return append([]domain.Fulfillment(nil), f.fulfillments[orderID]...), nil
}

func (f *fakePlatform) CreateFulfillment(_ context.Context, req domain.NewFulfillment) (*domain.Fulfillment, error) {
	f.creates = append(f.creates, req)
	if f.createErr != nil {
		return nil, f.createErr
	}

	var orderID int64
	for oid, fos := range f.fulfillmentOrders {
		for _, fo := range fos {
			if fo.ID == req.FulfillmentOrderID {
				orderID = oid
			}
		}
	}
	if orderID == 0 {
		return nil, errors.New("unknown fulfillment order")
	}

	f.nextFulfillment++
	created := domain.Fulfillment{
		ID:              f.nextFulfillment,
		OrderID:         orderID,
		Status:          "success",
		TrackingCompany: req.Tracking.Company,
		TrackingNumbers: []string{req.Tracking.Number},
	}
	f.fulfillments[orderID] = append(f.fulfillments[orderID], created)
	if f.closeOnFulfill {
		f.capabilities[req.FulfillmentOrderID] = domain.NewCapabilitySet()
		f.closed[req.FulfillmentOrderID] = true
	}
	return &created, nil
}

func (f *fakePlatform) UpdateFulfillmentTracking(_ context.Context, id int64, update domain.TrackingUpdate) error {
	f.updates = append(f.updates, fakeUpdate{fulfillmentID: id, update: update})
	if f.updateErr != nil {
		return f.updateErr
	}
	for oid, list := range f.fulfillments {
		for i := range list {
			if list[i].ID == id {
				f.fulfillments[oid][i].TrackingNumbers = []string{update.Tracking.Number}
			}
		}
	}
	return nil
}
