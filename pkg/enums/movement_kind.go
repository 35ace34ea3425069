package enums

import "fmt"

// MovementKind classifies a stock transaction.
type MovementKind string

const (
	MovementKindSale       MovementKind = "SALE"
	MovementKindReceipt    MovementKind = "RECEIPT"
	MovementKindAdjustment MovementKind = "ADJUSTMENT"
)

var validMovementKinds = []MovementKind{
	MovementKindSale,
	MovementKindReceipt,
	MovementKindAdjustment,
}

// String implements fmt.Stringer.
func (k MovementKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known MovementKind.
func (k MovementKind) IsValid() bool {
	for _, candidate := range validMovementKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// AcceptsDelta reports whether the sign of delta is allowed for the kind.
// Zero is never accepted.
func (k MovementKind) AcceptsDelta(delta int) bool {
	switch k {
	case MovementKindSale:
		return delta < 0
	case MovementKindReceipt:
		return delta > 0
	case MovementKindAdjustment:
		return delta != 0
	}
	return false
}

// ParseMovementKind converts raw input into a MovementKind.
func ParseMovementKind(value string) (MovementKind, error) {
	normalized := normalizeToken(value)
	for _, candidate := range validMovementKinds {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid movement kind %q", value)
}
