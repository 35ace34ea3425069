package enums

import "fmt"

// AlertLevel ranks how urgent a low-stock alert is.
type AlertLevel string

const (
	AlertLevelOutOfStock  AlertLevel = "OUT_OF_STOCK"
	AlertLevelCriticalLow AlertLevel = "CRITICAL_LOW"
	AlertLevelLowStock    AlertLevel = "LOW_STOCK"
)

var validAlertLevels = []AlertLevel{
	AlertLevelOutOfStock,
	AlertLevelCriticalLow,
	AlertLevelLowStock,
}

// String implements fmt.Stringer.
func (l AlertLevel) String() string {
	return string(l)
}

// IsValid reports whether the value is a known AlertLevel.
func (l AlertLevel) IsValid() bool {
	for _, candidate := range validAlertLevels {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseAlertLevel converts raw input into an AlertLevel.
func ParseAlertLevel(value string) (AlertLevel, error) {
	normalized := normalizeToken(value)
	for _, candidate := range validAlertLevels {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert level %q", value)
}

// AlertStatus tracks operator handling of a persisted alert.
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "ACTIVE"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

var validAlertStatuses = []AlertStatus{
	AlertStatusActive,
	AlertStatusAcknowledged,
	AlertStatusResolved,
}

// OpenAlertStatuses are the statuses of alerts that are still outstanding.
var OpenAlertStatuses = []AlertStatus{AlertStatusActive, AlertStatusAcknowledged}

// String implements fmt.Stringer.
func (s AlertStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AlertStatus.
func (s AlertStatus) IsValid() bool {
	for _, candidate := range validAlertStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAlertStatus converts raw input into an AlertStatus.
func ParseAlertStatus(value string) (AlertStatus, error) {
	normalized := normalizeToken(value)
	for _, candidate := range validAlertStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert status %q", value)
}

// RestockUrgency orders restock suggestions.
type RestockUrgency string

const (
	RestockUrgencyCritical RestockUrgency = "CRITICAL"
	RestockUrgencyHigh     RestockUrgency = "HIGH"
	RestockUrgencyMedium   RestockUrgency = "MEDIUM"
)

// Rank returns a sort key where lower is more urgent.
func (u RestockUrgency) Rank() int {
	switch u {
	case RestockUrgencyCritical:
		return 0
	case RestockUrgencyHigh:
		return 1
	default:
		return 2
	}
}
