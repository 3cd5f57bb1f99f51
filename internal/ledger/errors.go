package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both "does not exist" and "owned by someone else".
// Callers must not be able to tell the two apart.
var ErrNotFound = errors.New("not found")

// ValidationError names the input field that failed a precondition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientInventoryError reports the exact shortfall on a rejected sell.
type InsufficientInventoryError struct {
	Available int
	Requested int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory: available=%d requested=%d", e.Available, e.Requested)
}

// InvalidKindError guards the dispatcher against kinds outside BUY/SELL.
type InvalidKindError struct {
	Kind Kind
}

func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid transaction kind: %q", string(e.Kind))
}
