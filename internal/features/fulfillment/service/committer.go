package service

import (
	"context"
	"fmt"
	"strings"

	"shipment-relay/internal/core/logger"
	"shipment-relay/internal/features/fulfillment/domain"
	"shipment-relay/internal/features/fulfillment/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// idempotencyNamespace scopes the UUIDv5 keys sent with fulfillment creations.
var idempotencyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:shipment-relay:fulfillment"))

// IdempotencyKey derives the creation token for a tracking number.
// The same tracking number always yields the same key, regardless of case or surrounding space.
func IdempotencyKey(trackingNumber string) string {
	normalized := strings.ToUpper(strings.TrimSpace(trackingNumber))
	return uuid.NewSHA1(idempotencyNamespace, []byte(normalized)).String()
}

// FulfillmentCommitter records a tracking number on an order, issuing at most one write per call.
type FulfillmentCommitter struct {
	gateway     ports.FulfillmentGateway
	carrierName string
	trackingURL string
	log         *zap.Logger
}

// NewFulfillmentCommitter creates a new FulfillmentCommitter.
// trackingURL is a fmt template receiving the tracking number; empty disables the link.
func NewFulfillmentCommitter(gateway ports.FulfillmentGateway, carrierName, trackingURL string) *FulfillmentCommitter {
	return &FulfillmentCommitter{
		gateway:     gateway,
		carrierName: carrierName,
		trackingURL: trackingURL,
		log:         logger.Named("fulfillment.committer"),
	}
}

// Fulfill makes sure the order's fulfillment carries trackingNumber:
//  1. an active fulfillment already carrying it: nothing is written;
//  2. an active fulfillment without it: its tracking is replaced and the customer notified;
//  3. no active fulfillment: one is created for the fulfillment order, notifying the customer.
func (c *FulfillmentCommitter) Fulfill(ctx context.Context, orderID, fulfillmentOrderID int64, trackingNumber string) (domain.FulfillAction, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return "", domain.ErrInvalidTrackingNumber
	}

	active, err := c.activeFulfillments(ctx, orderID)
	if err != nil {
		return "", err
	}

	for _, f := range active {
		if f.HasTrackingNumber(trackingNumber) {
			c.log.Info("Tracking number already recorded, skipping write",
				zap.Int64("order_id", orderID),
				zap.Int64("fulfillment_id", f.ID),
				zap.String("tracking_number", trackingNumber),
			)
			return domain.FulfillActionAlreadyRecorded, nil
		}
	}

	tracking := c.trackingInfo(trackingNumber)

	if len(active) > 0 {
		existing := active[0]
		update := domain.TrackingUpdate{Tracking: tracking, NotifyCustomer: true}
		if err := c.gateway.UpdateFulfillmentTracking(ctx, existing.ID, update); err != nil {
			return "", fmt.Errorf("update tracking on fulfillment %d: %w", existing.ID, err)
		}
		return domain.FulfillActionTrackingUpdated, nil
	}

	req := domain.NewFulfillment{
		FulfillmentOrderID: fulfillmentOrderID,
		Tracking:           tracking,
		NotifyCustomer:     true,
		IdempotencyKey:     IdempotencyKey(trackingNumber),
	}
	if _, err := c.gateway.CreateFulfillment(ctx, req); err != nil {
		return "", fmt.Errorf("create fulfillment for fulfillment order %d: %w", fulfillmentOrderID, err)
	}

	return domain.FulfillActionCreated, nil
}

// AlreadyRecorded reports whether an active fulfillment of the order carries trackingNumber.
// It only reads.
func (c *FulfillmentCommitter) AlreadyRecorded(ctx context.Context, orderID int64, trackingNumber string) (bool, error) {
	active, err := c.activeFulfillments(ctx, orderID)
	if err != nil {
		return false, err
	}
	for _, f := range active {
		if f.HasTrackingNumber(trackingNumber) {
			return true, nil
		}
	}
	return false, nil
}

// HasActiveFulfillment reports whether the order already has any active fulfillment.
func (c *FulfillmentCommitter) HasActiveFulfillment(ctx context.Context, orderID int64) (bool, error) {
	active, err := c.activeFulfillments(ctx, orderID)
	if err != nil {
		return false, err
	}
	return len(active) > 0, nil
}

func (c *FulfillmentCommitter) activeFulfillments(ctx context.Context, orderID int64) ([]domain.Fulfillment, error) {
	all, err := c.gateway.ListFulfillments(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list fulfillments of order %d: %w", orderID, err)
	}

	active := make([]domain.Fulfillment, 0, len(all))
	for _, f := range all {
		if f.IsActive() {
			active = append(active, f)
		}
	}
	return active, nil
}

func (c *FulfillmentCommitter) trackingInfo(number string) domain.TrackingInfo {
	info := domain.TrackingInfo{Number: number, Company: c.carrierName}
	if c.trackingURL != "" {
		if strings.Contains(c.trackingURL, "%s") {
			info.URL = fmt.Sprintf(c.trackingURL, number)
		} else {
			info.URL = c.trackingURL + number
		}
	}
	return info
}
