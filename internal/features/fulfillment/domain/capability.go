package domain

import (
	"sort"
	"strings"
)

// Capability is an operation name the order platform reports as currently permitted on a fulfillment order.
type Capability string

const (
	// CapabilityHold allows placing the fulfillment order on hold.
	CapabilityHold Capability = "hold"
	// CapabilityReleaseHold allows lifting an existing hold.
	CapabilityReleaseHold Capability = "release_hold"
	// CapabilityFulfill allows creating a fulfillment (short form).
	CapabilityFulfill Capability = "fulfill"
	// CapabilityCreateFulfillment allows creating a fulfillment.
	CapabilityCreateFulfillment Capability = "create_fulfillment"
)

// CapabilitySet is the set of operations permitted on a fulfillment order at the moment it was read.
// It is never cached: an empty set means the platform reported nothing, which is not
// the same as a specific capability being absent from a non-empty set.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from raw action names, normalizing case and whitespace.
func NewCapabilitySet(actions ...string) CapabilitySet {
	set := make(CapabilitySet, len(actions))
	for _, a := range actions {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			set[Capability(a)] = struct{}{}
		}
	}
	return set
}

// Has reports whether c is permitted.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// IsEmpty reports whether the platform returned no capabilities at all.
func (s CapabilitySet) IsEmpty() bool {
	return len(s) == 0
}

// CanFulfill reports whether either fulfillment capability alias is present.
func (s CapabilitySet) CanFulfill() bool {
	return s.Has(CapabilityFulfill) || s.Has(CapabilityCreateFulfillment)
}

// List returns the capabilities sorted by name.
func (s CapabilitySet) List() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return out
}

// EmptyCapabilityPolicy decides how a state-changing operation behaves when the capability set is empty.
type EmptyCapabilityPolicy string

const (
	// PolicyAttempt issues the call anyway and lets the platform decide.
	PolicyAttempt EmptyCapabilityPolicy = "attempt"
	// PolicyAbort treats an empty set as "nothing is permitted".
	PolicyAbort EmptyCapabilityPolicy = "abort"
)

// Allows decides whether an operation requiring c may proceed against set under the policy.
func (p EmptyCapabilityPolicy) Allows(set CapabilitySet, c Capability) bool {
	if set.IsEmpty() {
		return p == PolicyAttempt
	}
	return set.Has(c)
}

// AllowsFulfillment is Allows for either fulfillment alias.
func (p EmptyCapabilityPolicy) AllowsFulfillment(set CapabilitySet) bool {
	if set.IsEmpty() {
		return p == PolicyAttempt
	}
	return set.CanFulfill()
}
