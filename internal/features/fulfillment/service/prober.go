package service

import (
	"context"
	"fmt"

	"shipment-relay/internal/features/fulfillment/domain"
	"shipment-relay/internal/features/fulfillment/ports"
)

// CapabilityProber reads the operations a fulfillment order currently permits.
type CapabilityProber struct {
	reader ports.FulfillmentOrderReader
}

// NewCapabilityProber creates a new CapabilityProber.
func NewCapabilityProber(reader ports.FulfillmentOrderReader) *CapabilityProber {
	return &CapabilityProber{reader: reader}
}

// GetCapabilities fetches the fulfillment order and returns its capability set.
// A missing or malformed capability field yields an empty set, not an error.
func (p *CapabilityProber) GetCapabilities(ctx context.Context, fulfillmentOrderID int64) (domain.CapabilitySet, error) {
	fo, err := p.reader.GetFulfillmentOrder(ctx, fulfillmentOrderID)
	if err != nil {
		return nil, fmt.Errorf("probe fulfillment order %d: %w", fulfillmentOrderID, err)
	}
	if fo == nil || fo.Capabilities == nil {
		return domain.NewCapabilitySet(), nil
	}
	return fo.Capabilities, nil
}
