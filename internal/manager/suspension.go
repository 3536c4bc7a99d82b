package manager

import (
	"errors"
	"fmt"
)

// SuspensionError carries the operator-supplied reason so the API layer can
// show it to visitors of the suspended store.
type SuspensionError struct {
	Reason string
}

func (e *SuspensionError) Error() string {
	if e.Reason == "" {
		return "store is suspended"
	}

	return fmt.Sprintf("store is suspended: %s", e.Reason)
}

func (e *SuspensionError) Unwrap() error {
	return ErrTenantSuspended
}

// GetSuspensionContext extracts the suspension reason from an error chain, if
// a SuspensionError is present.
func GetSuspensionContext(err error) map[string]any {
	var se *SuspensionError
	if !errors.As(err, &se) || se.Reason == "" {
		return nil
	}

	return map[string]any{
		"reason": se.Reason,
	}
}
