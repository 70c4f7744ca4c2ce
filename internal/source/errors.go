package source

import "github.com/pingcap/errors"

var (
	// ErrMalformed reports input that cannot be classified: a continuation
	// with no following line, or a construct still open at end of input.
	ErrMalformed = errors.New("malformed source")
	// ErrInconsistentState reports an impossible cleaner state. It means
	// a state machine is broken, not that the input is bad.
	ErrInconsistentState = errors.New("inconsistent cleaner state")
)

// IsMalformed reports whether err was caused by ErrMalformed.
func IsMalformed(err error) bool {
	return errors.Cause(err) == ErrMalformed
}

// IsInconsistent reports whether err was caused by ErrInconsistentState.
func IsInconsistent(err error) bool {
	return errors.Cause(err) == ErrInconsistentState
}
