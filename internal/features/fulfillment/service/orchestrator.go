package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"shipment-relay/internal/core/logger"
	"shipment-relay/internal/features/fulfillment/domain"
	"shipment-relay/internal/features/fulfillment/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "shipment-relay/internal/features/fulfillment/service"

// Options configures the orchestrator's writes.
type Options struct {
	// Hold is sent when a fulfillment order is put on hold.
	Hold domain.HoldRequest
	// CarrierName is written as the tracking company.
	CarrierName string
	// TrackingURL is a fmt template receiving the tracking number.
	TrackingURL string
	// EmptyCapabilityPolicy decides what happens when no capabilities are reported.
	EmptyCapabilityPolicy domain.EmptyCapabilityPolicy
}

// Orchestrator drives an order to the state a carrier event asks for, using the minimal set of
// idempotent platform calls. Each call rebuilds every fact it needs from the platform.
type Orchestrator struct {
	resolver  *ResourceResolver
	prober    *CapabilityProber
	holds     *HoldController
	committer *FulfillmentCommitter
	policy    domain.EmptyCapabilityPolicy
	tracer    trace.Tracer
	log       *zap.Logger
}

// NewOrchestrator wires the resolver, prober, hold controller and committer onto the platform.
func NewOrchestrator(platform ports.OrderPlatform, opts Options) *Orchestrator {
	policy := opts.EmptyCapabilityPolicy
	if policy == "" {
		policy = domain.PolicyAttempt
	}

	prober := NewCapabilityProber(platform)

	return &Orchestrator{
		resolver:  NewResourceResolver(platform),
		prober:    prober,
		holds:     NewHoldController(prober, platform, opts.Hold, policy),
		committer: NewFulfillmentCommitter(platform, opts.CarrierName, opts.TrackingURL),
		policy:    policy,
		tracer:    otel.Tracer(tracerName),
		log:       logger.Named("fulfillment"),
	}
}

// PutOnHold places the order's fulfillment on hold. It reports whether the hold was applied.
func (o *Orchestrator) PutOnHold(ctx context.Context, orderName string) bool {
	ctx, span := o.tracer.Start(ctx, "fulfillment.PutOnHold",
		trace.WithAttributes(attribute.String("order.name", orderName)))
	defer span.End()

	err := o.putOnHold(ctx, orderName)
	return o.report(span, "PutOnHold", err, zap.String("order_name", orderName))
}

func (o *Orchestrator) putOnHold(ctx context.Context, orderName string) error {
	target, err := o.resolver.Resolve(ctx, orderName)
	if err != nil {
		return err
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int64("order.id", target.OrderID),
		attribute.Int64("fulfillment_order.id", target.FulfillmentOrderID),
	)

	err = o.holds.RequestHold(ctx, target.FulfillmentOrderID)
	if err != nil && holdRefused(err) {
		return o.refusedHold(ctx, target, err)
	}
	return err
}

// holdRefused reports whether the platform (or the capability gate) turned the hold down,
// as opposed to the call failing in transit.
func holdRefused(err error) bool {
	if errors.Is(err, domain.ErrUnsupported) {
		return true
	}
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnprocessableEntity || apiErr.StatusCode == http.StatusConflict
	}
	return false
}

// refusedHold handles a fulfillment order that no longer accepts a hold.
// An order that already shipped needs no hold, so a late label event counts as done.
func (o *Orchestrator) refusedHold(ctx context.Context, target domain.Target, cause error) error {
	fulfilled, err := o.committer.HasActiveFulfillment(ctx, target.OrderID)
	if err != nil {
		o.log.Warn("Could not check existing fulfillments",
			zap.Int64("order_id", target.OrderID),
			zap.Error(err),
		)
		return cause
	}
	if !fulfilled {
		return cause
	}

	o.log.Info("Order already fulfilled, hold not needed",
		zap.String("order_name", target.OrderName),
		zap.Int64("order_id", target.OrderID),
	)
	return nil
}

// MarkFulfilled releases any hold and records trackingNumber on the order's fulfillment,
// notifying the customer at most once per tracking number. It reports whether the order
// ends up carrying the tracking number.
func (o *Orchestrator) MarkFulfilled(ctx context.Context, orderName, trackingNumber string) bool {
	ctx, span := o.tracer.Start(ctx, "fulfillment.MarkFulfilled",
		trace.WithAttributes(
			attribute.String("order.name", orderName),
			attribute.String("tracking.number", trackingNumber),
		))
	defer span.End()

	err := o.markFulfilled(ctx, orderName, trackingNumber)
	return o.report(span, "MarkFulfilled", err,
		zap.String("order_name", orderName),
		zap.String("tracking_number", trackingNumber),
	)
}

func (o *Orchestrator) markFulfilled(ctx context.Context, orderName, trackingNumber string) error {
	if strings.TrimSpace(trackingNumber) == "" {
		return domain.ErrInvalidTrackingNumber
	}

	target, err := o.resolver.Resolve(ctx, orderName)
	if err != nil {
		return err
	}
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int64("order.id", target.OrderID),
		attribute.Int64("fulfillment_order.id", target.FulfillmentOrderID),
	)

	released, err := o.holds.ReleaseHoldIfPossible(ctx, target.FulfillmentOrderID)
	if err != nil {
		o.log.Warn("Release hold failed, continuing with fulfillment",
			zap.String("order_name", target.OrderName),
			zap.Int64("fulfillment_order_id", target.FulfillmentOrderID),
			zap.Error(err),
		)
	}
	span.SetAttributes(attribute.Bool("hold.released", released))

	caps, err := o.prober.GetCapabilities(ctx, target.FulfillmentOrderID)
	if err != nil {
		return err
	}

	if !o.policy.AllowsFulfillment(caps) {
		return o.unsupportedFulfillment(ctx, target, trackingNumber, caps)
	}

	action, err := o.committer.Fulfill(ctx, target.OrderID, target.FulfillmentOrderID, trackingNumber)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("fulfillment.action", string(action)))

	o.log.Info("Fulfillment committed",
		zap.String("order_name", target.OrderName),
		zap.Int64("order_id", target.OrderID),
		zap.String("tracking_number", trackingNumber),
		zap.String("action", string(action)),
	)
	return nil
}

// unsupportedFulfillment handles a fulfillment order that no longer accepts fulfillments.
// A redelivered event for an order already carrying the tracking number counts as done.
func (o *Orchestrator) unsupportedFulfillment(ctx context.Context, target domain.Target, trackingNumber string, caps domain.CapabilitySet) error {
	recorded, err := o.committer.AlreadyRecorded(ctx, target.OrderID, trackingNumber)
	if err != nil {
		o.log.Warn("Could not check existing fulfillments",
			zap.Int64("order_id", target.OrderID),
			zap.Error(err),
		)
	}
	if recorded {
		o.log.Info("Fulfillment order closed but tracking already recorded",
			zap.String("order_name", target.OrderName),
			zap.String("tracking_number", trackingNumber),
		)
		return nil
	}

	return fmt.Errorf("%w: fulfill on fulfillment order %d (capabilities %v)",
		domain.ErrUnsupported, target.FulfillmentOrderID, caps.List())
}

// Inspect resolves an order and returns its current capability set without changing anything.
func (o *Orchestrator) Inspect(ctx context.Context, orderName string) (*domain.Inspection, error) {
	target, err := o.resolver.Resolve(ctx, orderName)
	if err != nil {
		return nil, err
	}

	caps, err := o.prober.GetCapabilities(ctx, target.FulfillmentOrderID)
	if err != nil {
		return nil, err
	}

	return &domain.Inspection{
		OrderName:          target.OrderName,
		OrderID:            target.OrderID,
		FulfillmentOrderID: target.FulfillmentOrderID,
		Capabilities:       caps.List(),
	}, nil
}

// report logs the outcome of a public operation and folds it into a bool.
// NotFound and Unsupported are business outcomes and log at Warn; anything else is an Error.
func (o *Orchestrator) report(span trace.Span, op string, err error, fields ...zap.Field) bool {
	if err == nil {
		o.log.Info(op+" succeeded", fields...)
		return true
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	fields = append(fields, zap.Error(err))

	switch {
	case domain.IsNotFound(err):
		o.log.Warn(op+" failed: not found", fields...)
	case errors.Is(err, domain.ErrUnsupported):
		o.log.Warn(op+" failed: unsupported", fields...)
	case errors.Is(err, domain.ErrInvalidTrackingNumber):
		o.log.Warn(op+" failed: invalid input", fields...)
	default:
		o.log.Error(op+" failed", fields...)
	}
	return false
}
