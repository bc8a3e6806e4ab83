package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/warden/pkg/types"
)

// ErrResourceUnavailable is returned when an operation is requested but
// the session is not in the Ready state or holds no browser handle.
var ErrResourceUnavailable = errors.New("session resource unavailable")

// InvalidStateTransitionError is returned when an operation is not legal
// from the session's current state, e.g. Start while already Ready.
type InvalidStateTransitionError struct {
	From types.SessionState
	Op   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: cannot %s from state %q", e.Op, e.From)
}

// OperationTimeoutError is returned when an operation exceeds its deadline
// inside WithResource. The operation's result is discarded; its context
// is cancelled so cooperative operations can stop early.
type OperationTimeoutError struct {
	Timeout time.Duration
}

func (e *OperationTimeoutError) Error() string {
	return fmt.Sprintf("operation timed out after %s", e.Timeout)
}

// resourceFatalSignatures are substrings of driver error messages that
// indicate the browser itself is gone, as opposed to a failure in the
// caller's business logic. Matching is case-insensitive.
var resourceFatalSignatures = []string{
	"target closed",
	"target page, context or browser has been closed",
	"browser has been closed",
	"browser closed",
	"protocol error",
	"connection closed",
	"websocket: close",
}

// IsResourceFatal reports whether an error indicates the browser session
// itself has died and a recovery cycle is needed. Errors that do not
// match a known crash signature are treated as business logic errors and
// propagated without recovery.
func IsResourceFatal(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range resourceFatalSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
