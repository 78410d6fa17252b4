package history

import (
	"errors"
	"fmt"

	"github.com/bethropolis/tidelist/internal/core/observable"
)

var (
	// ErrNoCompoundOperation is returned by EndCompoundOperation without a matching begin.
	ErrNoCompoundOperation = fmt.Errorf("%w: no compound operation in progress", observable.ErrInvalidState)
	// ErrCompoundInProgress is returned by Undo, Redo and Restore inside a compound operation.
	ErrCompoundInProgress = fmt.Errorf("%w: compound operation in progress", observable.ErrInvalidState)
	// ErrCheckpointInvalid is returned when a checkpoint's position has left the history.
	ErrCheckpointInvalid = fmt.Errorf("%w: checkpoint no longer in history", observable.ErrInvalidState)
	// ErrRecorderOwned is returned by SetRecorder on an Undoable.
	ErrRecorderOwned = fmt.Errorf("%w: recorder is owned by the history", observable.ErrInvalidState)
	// ErrDecode is returned when a stored record cannot be turned back into elements.
	ErrDecode = errors.New("cannot decode history record")
)

// ReplayError reports which record of a group failed to apply.
type ReplayError struct {
	Op     string // "undo", "redo" or "cancel"
	Group  int    // index of the group in the stack, -1 for a cancelled scope
	Record int    // index of the record inside the group
	Type   observable.ChangeType
	Err    error
}

// Error implements the error interface.
func (e *ReplayError) Error() string {
	return fmt.Sprintf("history %s: group %d record %d (%s): %v", e.Op, e.Group, e.Record, e.Type, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReplayError) Unwrap() error {
	return e.Err
}
