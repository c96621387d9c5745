package service

import (
	"context"
	"strings"

	"shipment-relay/internal/core/logger"
	trackingdomain "shipment-relay/internal/features/tracking/domain"
	"shipment-relay/internal/features/webhooks/domain"

	"go.uber.org/zap"
)

// Orchestrator drives orders on the order platform.
type Orchestrator interface {
	PutOnHold(ctx context.Context, orderName string) bool
	MarkFulfilled(ctx context.Context, orderName, trackingNumber string) bool
}

// Carrier answers questions about shipments.
type Carrier interface {
	ResolveOrderReference(ctx context.Context, shipmentID string) (string, error)
	CheckReadiness(ctx context.Context, reference string) (trackingdomain.Readiness, error)
}

// Dispatcher turns carrier events into orchestrator calls.
// Every step is idempotent, so a failed outcome is safe to redeliver.
type Dispatcher struct {
	orchestrator Orchestrator
	carrier      Carrier
	log          *zap.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(orchestrator Orchestrator, carrier Carrier) *Dispatcher {
	return &Dispatcher{
		orchestrator: orchestrator,
		carrier:      carrier,
		log:          logger.Named("webhooks"),
	}
}

// Dispatch handles one event.
func (d *Dispatcher) Dispatch(ctx context.Context, event domain.Event) domain.Outcome {
	if event.Event != domain.EventShipmentStatusChanged {
		return d.ignored(event, "", "event not handled")
	}

	switch strings.ToLower(strings.TrimSpace(event.Payload.Status)) {
	case domain.StatusCreated, domain.StatusConfirmed:
		return d.hold(ctx, event)
	case domain.StatusAdoptedAtSortingCenter:
		return d.fulfill(ctx, event)
	default:
		return d.ignored(event, "", "status not handled")
	}
}

func (d *Dispatcher) hold(ctx context.Context, event domain.Event) domain.Outcome {
	orderName, outcome, ok := d.resolve(ctx, event)
	if !ok {
		return outcome
	}

	if !d.orchestrator.PutOnHold(ctx, orderName) {
		return d.failed(event, orderName, "hold was not applied", nil)
	}
	return d.processed(event, orderName)
}

func (d *Dispatcher) fulfill(ctx context.Context, event domain.Event) domain.Outcome {
	orderName, outcome, ok := d.resolve(ctx, event)
	if !ok {
		return outcome
	}

	reference := strings.TrimSpace(event.Payload.TrackingNumber)
	if reference == "" {
		reference = string(event.Payload.ShipmentID)
	}

	readiness, err := d.carrier.CheckReadiness(ctx, reference)
	if err != nil {
		return d.failed(event, orderName, "readiness check failed", err)
	}
	if !readiness.Ready {
		return d.ignored(event, orderName, "parcel not in sorting network yet")
	}

	trackingNumber := readiness.TrackingNumber
	if trackingNumber == "" {
		trackingNumber = reference
	}

	if !d.orchestrator.MarkFulfilled(ctx, orderName, trackingNumber) {
		return d.failed(event, orderName, "fulfillment was not recorded", nil)
	}
	return d.processed(event, orderName)
}

// resolve maps the event's shipment to an order name. ok is false when outcome is final.
func (d *Dispatcher) resolve(ctx context.Context, event domain.Event) (string, domain.Outcome, bool) {
	orderName, err := d.carrier.ResolveOrderReference(ctx, string(event.Payload.ShipmentID))
	if err != nil {
		return "", d.failed(event, "", "shipment lookup failed", err), false
	}
	if orderName == "" {
		return "", d.ignored(event, "", "shipment has no order reference"), false
	}
	return orderName, domain.Outcome{}, true
}

func (d *Dispatcher) processed(event domain.Event, orderName string) domain.Outcome {
	d.log.Info("Webhook processed", eventFields(event, orderName)...)
	return domain.Outcome{Result: domain.ResultProcessed, OrderName: orderName}
}

func (d *Dispatcher) ignored(event domain.Event, orderName, reason string) domain.Outcome {
	d.log.Info("Webhook ignored", append(eventFields(event, orderName), zap.String("reason", reason))...)
	return domain.Outcome{Result: domain.ResultIgnored, Reason: reason, OrderName: orderName}
}

func (d *Dispatcher) failed(event domain.Event, orderName, reason string, err error) domain.Outcome {
	fields := append(eventFields(event, orderName), zap.String("reason", reason))
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	d.log.Error("Webhook failed", fields...)
	return domain.Outcome{Result: domain.ResultFailed, Reason: reason, OrderName: orderName}
}

func eventFields(event domain.Event, orderName string) []zap.Field {
	fields := []zap.Field{
		zap.String("event", event.Event),
		zap.String("shipment_id", string(event.Payload.ShipmentID)),
		zap.String("status", event.Payload.Status),
	}
	if orderName != "" {
		fields = append(fields, zap.String("order_name", orderName))
	}
	return fields
}
