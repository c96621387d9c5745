package domain

import "strings"

// OrderRef identifies an order on the order platform.
type OrderRef struct {
	// ID is the platform's opaque numeric order id.
	ID int64 `json:"id"`
	// Name is the human-readable display name, always prefixed with "#".
	Name string `json:"name"`
}

// FulfillmentOrder is a group of line items of an order shipped together.
type FulfillmentOrder struct {
	ID      int64  `json:"id"`
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
	// Capabilities is the set of operations the platform currently permits.
	Capabilities CapabilitySet `json:"-"`
}

// Target is an order resolved down to the fulfillment order the relay acts on.
type Target struct {
	OrderName          string
	OrderID            int64
	FulfillmentOrderID int64
}

// Inspection is a read-only snapshot of an order's fulfillment state.
type Inspection struct {
	OrderName          string   `json:"order_name"`
	OrderID            int64    `json:"order_id"`
	FulfillmentOrderID int64    `json:"fulfillment_order_id"`
	Capabilities       []string `json:"capabilities"`
}

// HoldRequest describes why a fulfillment order is put on hold.
type HoldRequest struct {
	Reason string
	Notes  string
}

// NormalizeOrderName trims the input and ensures the leading "#" the platform uses in display names.
func NormalizeOrderName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "#") {
		return name
	}
	return "#" + name
}
