package domain

import "strings"

// Fulfillment is the shipment record attached to an order.
type Fulfillment struct {
	ID              int64    `json:"id"`
	OrderID         int64    `json:"order_id"`
	Status          string   `json:"status"`
	TrackingCompany string   `json:"tracking_company"`
	TrackingNumbers []string `json:"tracking_numbers"`
}

// IsActive reports whether the fulfillment still counts for the order.
// Cancelled and failed fulfillments are ignored.
func (f Fulfillment) IsActive() bool {
	switch strings.ToLower(f.Status) {
	case "cancelled", "error", "failure":
		return false
	default:
		return true
	}
}

// HasTrackingNumber reports whether the fulfillment already carries number, ignoring case and surrounding space.
func (f Fulfillment) HasTrackingNumber(number string) bool {
	number = strings.TrimSpace(number)
	if number == "" {
		return false
	}
	for _, n := range f.TrackingNumbers {
		if strings.EqualFold(strings.TrimSpace(n), number) {
			return true
		}
	}
	return false
}

// TrackingInfo is the tracking data written to a fulfillment.
type TrackingInfo struct {
	Number  string
	Company string
	URL     string
}

// NewFulfillment is a request to create a fulfillment for a fulfillment order.
type NewFulfillment struct {
	FulfillmentOrderID int64
	Tracking           TrackingInfo
	NotifyCustomer     bool
	// IdempotencyKey lets the platform collapse transport-level retries of the same creation.
	IdempotencyKey string
}

// TrackingUpdate replaces the tracking data of an existing fulfillment.
type TrackingUpdate struct {
	Tracking       TrackingInfo
	NotifyCustomer bool
}

// FulfillAction is the single step the committer took for a Fulfill call.
type FulfillAction string

const (
	// FulfillActionAlreadyRecorded means an active fulfillment already carried the tracking number; nothing was written.
	FulfillActionAlreadyRecorded FulfillAction = "already_recorded"
	// FulfillActionTrackingUpdated means the tracking number was attached to an existing fulfillment.
	FulfillActionTrackingUpdated FulfillAction = "tracking_updated"
	// FulfillActionCreated means a new fulfillment was created.
	FulfillActionCreated FulfillAction = "created"
)
