package enums

import "fmt"

// RestockOrderStatus tracks the lifecycle of a purchase order sent to a supplier.
type RestockOrderStatus string

const (
	RestockOrderStatusDraft     RestockOrderStatus = "DRAFT"
	RestockOrderStatusSubmitted RestockOrderStatus = "SUBMITTED"
	RestockOrderStatusFulfilled RestockOrderStatus = "FULFILLED"
	RestockOrderStatusCancelled RestockOrderStatus = "CANCELLED"
)

var validRestockOrderStatuses = []RestockOrderStatus{
	RestockOrderStatusDraft,
	RestockOrderStatusSubmitted,
	RestockOrderStatusFulfilled,
	RestockOrderStatusCancelled,
}

// RestockOrderStatuses returns every status in lifecycle order.
func RestockOrderStatuses() []RestockOrderStatus {
	return append([]RestockOrderStatus(nil), validRestockOrderStatuses...)
}

// String implements fmt.Stringer.
func (s RestockOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RestockOrderStatus.
func (s RestockOrderStatus) IsValid() bool {
	for _, candidate := range validRestockOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s RestockOrderStatus) IsTerminal() bool {
	return s == RestockOrderStatusFulfilled || s == RestockOrderStatusCancelled
}

// IsOpen reports whether the order still expects work (draft or submitted).
func (s RestockOrderStatus) IsOpen() bool {
	return s == RestockOrderStatusDraft || s == RestockOrderStatusSubmitted
}

// ParseRestockOrderStatus converts raw input into a RestockOrderStatus.
func ParseRestockOrderStatus(value string) (RestockOrderStatus, error) {
	normalized := normalizeToken(value)
	for _, candidate := range validRestockOrderStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid restock order status %q", value)
}
