package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EventShipmentStatusChanged is the only carrier event the relay acts on.
const EventShipmentStatusChanged = "shipment_status_changed"

// Carrier statuses that drive the order platform.
const (
	StatusCreated                = "created"
	StatusConfirmed              = "confirmed"
	StatusAdoptedAtSortingCenter = "adopted_at_sorting_center"
)

// ShipmentID accepts both the numeric and the string form the carrier sends.
type ShipmentID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ShipmentID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ShipmentID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("shipment_id must be a string or a number: %w", err)
	}
	*id = ShipmentID(n.String())
	return nil
}

// Event is the carrier webhook envelope.
type Event struct {
	Event   string  `json:"event"`
	EventTS string  `json:"event_ts"`
	Payload Payload `json:"payload"`
}

// Payload carries the shipment the event is about.
type Payload struct {
	ShipmentID     ShipmentID `json:"shipment_id"`
	Status         string     `json:"status"`
	TrackingNumber string     `json:"tracking_number"`
}

// Validate checks the fields every event needs.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Event) == "" {
		return fmt.Errorf("event is required")
	}
	if e.Event == EventShipmentStatusChanged && e.Payload.ShipmentID == "" {
		return fmt.Errorf("payload.shipment_id is required")
	}
	return nil
}

// Result classifies how an event was handled.
type Result string

const (
	// ResultProcessed means the order platform was driven to the requested state.
	ResultProcessed Result = "processed"
	// ResultIgnored means the event needs no action.
	ResultIgnored Result = "ignored"
	// ResultFailed means the event should be redelivered.
	ResultFailed Result = "failed"
)

// Outcome is the dispatcher's answer to one event.
type Outcome struct {
	Result Result `json:"result"`
	Reason string `json:"reason,omitempty"`
	// OrderName is the order the event resolved to, when any.
	OrderName string `json:"order_name,omitempty"`
}
