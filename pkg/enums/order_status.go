package enums

import "fmt"

// OrderStatus tracks a persisted order through the register lifecycle.
// Completed is terminal.
type OrderStatus string

const (
	OrderStatusInProgress    OrderStatus = "in_progress"
	OrderStatusNotInProgress OrderStatus = "not_in_progress"
	OrderStatusCompleted     OrderStatus = "completed"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusInProgress,
	OrderStatusNotInProgress,
	OrderStatusCompleted,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition may leave this status.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
