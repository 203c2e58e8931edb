package enums

import "fmt"

// NegotiationStatus represents the state of a price bargaining thread.
type NegotiationStatus string

const (
	NegotiationStatusOpen      NegotiationStatus = "open"
	NegotiationStatusCountered NegotiationStatus = "countered"
	NegotiationStatusAgreed    NegotiationStatus = "agreed"
	NegotiationStatusRejected  NegotiationStatus = "rejected"
)

var validNegotiationStatuses = []NegotiationStatus{
	NegotiationStatusOpen,
	NegotiationStatusCountered,
	NegotiationStatusAgreed,
	NegotiationStatusRejected,
}

// String implements fmt.Stringer.
func (s NegotiationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known NegotiationStatus.
func (s NegotiationStatus) IsValid() bool {
	for _, candidate := range validNegotiationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the negotiation can no longer change.
func (s NegotiationStatus) IsTerminal() bool {
	return s == NegotiationStatusAgreed || s == NegotiationStatusRejected
}

// IsActive reports whether the negotiation still blocks a new one on the
// same (product, buyer) pair.
func (s NegotiationStatus) IsActive() bool {
	return s == NegotiationStatusOpen || s == NegotiationStatusCountered
}

// ParseNegotiationStatus converts raw input into a NegotiationStatus.
func ParseNegotiationStatus(value string) (NegotiationStatus, error) {
	for _, candidate := range validNegotiationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid negotiation status %q", value)
}
