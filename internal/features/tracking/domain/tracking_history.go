package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrTrackingNotFound is returned when the carrier does not know a tracking number.
var ErrTrackingNotFound = errors.New("tracking not found")

// TrackingStatus represents the current global status of a shipment.
type TrackingStatus string

const (
	// TrackingStatusProcessing indicates the label exists but the parcel has not been handed over.
	TrackingStatusProcessing TrackingStatus = "PROCESSING"
	// TrackingStatusOrigin indicates the parcel was collected or dropped off.
	TrackingStatusOrigin TrackingStatus = "ORIGIN"
	// TrackingStatusInTransit indicates the parcel is moving through the sorting network.
	TrackingStatusInTransit TrackingStatus = "IN_TRANSIT"
	// TrackingStatusCompleted indicates the shipment has been delivered.
	TrackingStatusCompleted TrackingStatus = "COMPLETED"
	// TrackingStatusReturn indicates the shipment is going back to the sender.
	TrackingStatusReturn TrackingStatus = "RETURN"
	// TrackingStatusIncidence indicates there is an issue with the shipment.
	TrackingStatusIncidence TrackingStatus = "INCIDENCE"
)

// TrackingHistory represents the complete tracking information for a shipment.
type TrackingHistory struct {
	// TrackingNumber is the carrier's parcel number.
	TrackingNumber string `json:"tracking_number"`
	// Status is the carrier's raw current status, e.g. adopted_at_sorting_center.
	Status string `json:"status"`
	// GlobalStatus is the overall status of the shipment.
	GlobalStatus TrackingStatus `json:"global_status"`
	// History contains the chronological events for the shipment.
	History []TrackingEvent `json:"history"`
}

// TrackingEvent represents a single event in the shipment's tracking history.
type TrackingEvent struct {
	// Date is the timestamp when the event occurred.
	Date time.Time `json:"date"`
	// Code is the carrier status for this event.
	Code string `json:"code"`
	// OriginCode is the carrier's internal status code, when reported.
	OriginCode string `json:"origin_code,omitempty"`
	// Agency is the branch or locker that reported the event.
	Agency string `json:"agency,omitempty"`
}

// Readiness tells whether a parcel has entered the carrier's sorting network.
type Readiness struct {
	Ready          bool   `json:"ready"`
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
}

// GlobalStatusOf maps a raw carrier status to a global status.
func GlobalStatusOf(status string) TrackingStatus {
	s := strings.ToLower(status)
	switch {
	case s == "delivered" || s == "picked_up_by_receiver":
		return TrackingStatusCompleted
	case strings.HasPrefix(s, "returned") || strings.Contains(s, "return_to_sender"):
		return TrackingStatusReturn
	case strings.HasPrefix(s, "undelivered") || s == "missing" || s == "canceled" || s == "cancelled" || s == "rejected_by_receiver":
		return TrackingStatusIncidence
	case s == "created" || s == "confirmed" || s == "offers_prepared" || s == "offer_selected" || s == "dispatched_by_sender" || s == "":
		return TrackingStatusProcessing
	case s == "collected_from_sender" || s == "taken_by_courier" || s == "dispatched_by_sender_to_pok":
		return TrackingStatusOrigin
	default:
		return TrackingStatusInTransit
	}
}
