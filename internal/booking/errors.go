package booking

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is returned when required fields are missing from the
// booking request.
var ErrInvalidRequest = errors.New("booking: invalid request")

// ErrBranchNotFound is returned when no branch matches the requested name.
// A physical location cannot be substituted, so this aborts the booking.
var ErrBranchNotFound = errors.New("booking: branch not found")

// ServiceNotFoundError is returned when a branch offers no services at all.
// Any non-empty service list resolves to some service via the fallback chain.
type ServiceNotFoundError struct {
	Branch    string
	Requested string
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("booking: no services available at %s (requested %q)",
		e.Branch, e.Requested)
}
