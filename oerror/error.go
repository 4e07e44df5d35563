package oerror

import "fmt"

// SimError is the error type returned by blocksim packages. Reactions never return it; it is reserved for
// host-facing operations such as registry lookups and settings loading.
type SimError struct {
	Err string
}

// New formats an error message and returns it as a *SimError.
func New(format string, args ...any) *SimError {
	return &SimError{Err: fmt.Sprintf(format, args...)}
}

func (e *SimError) Error() string {
	return e.Err
}
