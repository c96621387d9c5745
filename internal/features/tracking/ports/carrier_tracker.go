package ports

import (
	"context"

	"shipment-relay/internal/features/tracking/domain"
)

// CarrierTracker defines the carrier operations the relay depends on.
// This is a Secondary Port (Driven Port).
type CarrierTracker interface {
	// ResolveOrderReference returns the order name the merchant attached to a shipment.
	// An unknown shipment or an empty reference yields "" and a nil error.
	ResolveOrderReference(ctx context.Context, shipmentID string) (string, error)
	// GetTrackingHistory retrieves the tracking status and events of a parcel.
	// An unknown tracking number yields domain.ErrTrackingNotFound.
	GetTrackingHistory(ctx context.Context, trackingNumber string) (*domain.TrackingHistory, error)
}
