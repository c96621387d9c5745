package service

import (
	"context"
	"fmt"

	"shipment-relay/internal/core/logger"
	"shipment-relay/internal/features/fulfillment/domain"
	"shipment-relay/internal/features/fulfillment/ports"

	"go.uber.org/zap"
)

// HoldController applies and lifts holds, gated by a fresh capability probe before every call.
type HoldController struct {
	prober  *CapabilityProber
	gateway ports.HoldGateway
	hold    domain.HoldRequest
	policy  domain.EmptyCapabilityPolicy
	log     *zap.Logger
}

// NewHoldController creates a new HoldController.
func NewHoldController(prober *CapabilityProber, gateway ports.HoldGateway, hold domain.HoldRequest, policy domain.EmptyCapabilityPolicy) *HoldController {
	return &HoldController{
		prober:  prober,
		gateway: gateway,
		hold:    hold,
		policy:  policy,
		log:     logger.Named("fulfillment.hold"),
	}
}

// RequestHold puts the fulfillment order on hold when the platform permits it.
// An order already on hold (release_hold reported, hold not) is left as is.
// Any other non-empty capability set without "hold" yields ErrUnsupported and no call is issued;
// an empty set is handled by the configured policy.
func (h *HoldController) RequestHold(ctx context.Context, fulfillmentOrderID int64) error {
	caps, err := h.prober.GetCapabilities(ctx, fulfillmentOrderID)
	if err != nil {
		return err
	}

	if !h.policy.Allows(caps, domain.CapabilityHold) {
		if caps.Has(domain.CapabilityReleaseHold) {
			h.log.Info("Fulfillment order already on hold, skipping",
				zap.Int64("fulfillment_order_id", fulfillmentOrderID),
			)
			return nil
		}
		return fmt.Errorf("%w: hold on fulfillment order %d (capabilities %v)",
			domain.ErrUnsupported, fulfillmentOrderID, caps.List())
	}

	if caps.IsEmpty() {
		h.log.Warn("Capability set empty, attempting hold per policy",
			zap.Int64("fulfillment_order_id", fulfillmentOrderID),
			zap.String("policy", string(h.policy)),
		)
	}

	if err := h.gateway.HoldFulfillmentOrder(ctx, fulfillmentOrderID, h.hold); err != nil {
		return fmt.Errorf("hold fulfillment order %d: %w", fulfillmentOrderID, err)
	}

	return nil
}

// ReleaseHoldIfPossible lifts the hold when "release_hold" is permitted.
// It reports false with a nil error when the release was skipped.
func (h *HoldController) ReleaseHoldIfPossible(ctx context.Context, fulfillmentOrderID int64) (bool, error) {
	caps, err := h.prober.GetCapabilities(ctx, fulfillmentOrderID)
	if err != nil {
		return false, err
	}

	if !caps.Has(domain.CapabilityReleaseHold) {
		h.log.Debug("Release skipped, fulfillment order not on hold",
			zap.Int64("fulfillment_order_id", fulfillmentOrderID),
			zap.Strings("capabilities", caps.List()),
		)
		return false, nil
	}

	if err := h.gateway.ReleaseFulfillmentOrderHold(ctx, fulfillmentOrderID); err != nil {
		return false, fmt.Errorf("release hold on fulfillment order %d: %w", fulfillmentOrderID, err)
	}

	return true, nil
}
