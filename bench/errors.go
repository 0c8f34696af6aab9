package bench

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMultipleDone reports an action that signalled completion more than
	// once for a single invocation.
	ErrMultipleDone = errors.New("done() called multiple times")

	// ErrUnsupportedAction reports an action whose function signature is not
	// one the harness knows how to run.
	ErrUnsupportedAction = errors.New("unsupported action signature")
)

// TimeoutError is returned when an asynchronous action does not signal
// completion within its timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout of %dms exceeded. Ensure the done() callback is being called", e.Timeout.Milliseconds())
}
