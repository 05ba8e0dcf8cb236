package domain

import (
	"fmt"
)

// ValidationError reports a request field that is missing or holds a
// value outside the allowed range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// InsufficientInventoryError rejects a sale that requests more tickets
// than the movie has left. Available carries the count observed inside
// the sale transaction.
type InsufficientInventoryError struct {
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("not enough tickets (available %d)", e.Available)
}
