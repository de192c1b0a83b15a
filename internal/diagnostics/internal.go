package diagnostics

import (
	"fmt"

	"github.com/pkg/errors"
)

// InternalError signals a bug in the compiler itself rather than in the
// compiled program. It is raised with panic and never collected in a Bag.
type InternalError struct {
	err error
}

// Internal builds an InternalError carrying the caller's stack.
func Internal(format string, args ...any) *InternalError {
	return &InternalError{err: errors.Errorf(format, args...)}
}

// Unexpected reports a node that reached a function unable to handle it.
func Unexpected(where string, node any) *InternalError {
	return &InternalError{err: errors.Errorf("%s: unexpected %T", where, node)}
}

func (e *InternalError) Error() string { return "internal compiler error: " + e.err.Error() }

func (e *InternalError) Unwrap() error { return e.err }

// Format prints the stack trace with %+v.
func (e *InternalError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "internal compiler error: %+v", e.err)
		return
	}
	fmt.Fprint(s, e.Error())
}
