package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupScopeEnd(t *testing.T) {
	u := newItems(t)
	func() {
		scope, err := u.GroupScope(true)
		require.NoError(t, err)
		defer scope.End()
		push(t, u, "a", "b")
	}()
	assert.False(t, u.InCompoundOperation())
	assert.Equal(t, 1, u.Depth())

	scope, err := u.GroupScope(true)
	require.NoError(t, err)
	require.NoError(t, scope.End())
	assert.NoError(t, scope.End(), "second End is a no-op")
}

func TestGroupScopeCancel(t *testing.T) {
	u := newItems(t)
	push(t, u, "keep")

	scope, err := u.GroupScope(true)
	require.NoError(t, err)
	push(t, u, "x", "y")
	require.NoError(t, scope.Cancel())

	assert.Equal(t, []item{"keep"}, u.Items())
	assert.False(t, u.CanRedo(), "cancelled group is discarded")
	assert.Equal(t, 0, u.Cursor())
	assert.NoError(t, scope.End())
}

func TestTransaction(t *testing.T) {
	u := newItems(t)
	require.NoError(t, u.Transaction(func() error {
		push(t, u, "a", "b")
		return nil
	}))
	assert.Equal(t, 0, u.Cursor())

	boom := errors.New("boom")
	err := u.Transaction(func() error {
		push(t, u, "c")
		require.NoError(t, u.Set(0, "A"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []item{"a", "b"}, u.Items())
	assert.Equal(t, 0, u.Cursor())
	assert.False(t, u.CanRedo())
	assert.False(t, u.InCompoundOperation())
}

func TestTransactionInsideCompound(t *testing.T) {
	boom := errors.New("boom")
	for _, undoable := range []bool{true, false} {
		t.Run(fmt.Sprintf("undoable=%v", undoable), func(t *testing.T) {
			u := newItems(t)
			push(t, u, "a")

			require.NoError(t, u.BeginCompoundOperation(undoable))
			push(t, u, "b")
			err := u.Transaction(func() error {
				push(t, u, "c")
				require.NoError(t, u.Set(0, "A"))
				return boom
			})
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, []item{"a", "b"}, u.Items(), "only the transaction is reverted")
			assert.True(t, u.InCompoundOperation())

			require.NoError(t, u.Transaction(func() error {
				push(t, u, "d")
				return nil
			}))
			require.NoError(t, u.EndCompoundOperation())
			assert.Equal(t, []item{"a", "b", "d"}, u.Items())

			if !undoable {
				assert.Equal(t, 1, u.Depth())
				return
			}
			assert.Equal(t, 2, u.Depth())
			assert.Len(t, u.Groups()[1], 2, "cancelled records are dropped from the group")
			assert.True(t, undo(t, u))
			assert.Equal(t, []item{"a"}, u.Items())
		})
	}
}

func TestNestedTransactionOpensGroup(t *testing.T) {
	u := newItems(t)
	push(t, u, "a")

	require.NoError(t, u.BeginCompoundOperation(true))
	err := u.Transaction(func() error {
		push(t, u, "b")
		return errors.New("boom")
	})
	require.Error(t, err)
	require.NoError(t, u.EndCompoundOperation())

	assert.Equal(t, []item{"a"}, u.Items())
	assert.Equal(t, 1, u.Depth(), "the group the transaction opened is gone")
	assert.Equal(t, 0, u.Cursor())
}

func TestNestedScopeCancelKeepsOuterChanges(t *testing.T) {
	u := newItems(t)
	outer, err := u.GroupScope(true)
	require.NoError(t, err)
	push(t, u, "a")

	inner, err := u.GroupScope(true)
	require.NoError(t, err)
	push(t, u, "b")
	require.NoError(t, inner.End())

	cancelled, err := u.GroupScope(true)
	require.NoError(t, err)
	push(t, u, "c")
	require.NoError(t, cancelled.Cancel())
	assert.Equal(t, []item{"a", "b"}, u.Items())

	require.NoError(t, outer.Cancel())
	assert.True(t, u.IsEmpty(), "outer cancel reverts the ended inner scope too")
	assert.Zero(t, u.Depth())
	assert.False(t, u.InCompoundOperation())
}

func TestCheckpoints(t *testing.T) {
	u := newItems(t)
	push(t, u, "a")
	cp := u.Checkpoint()
	push(t, u, "b", "c")

	require.NoError(t, u.UndoToCheckpoint(cp))
	assert.Equal(t, []item{"a"}, u.Items())

	require.NoError(t, u.RedoToCheckpoint(cp))
	assert.Equal(t, []item{"a"}, u.Items(), "already at the checkpoint")

	// Undo below the checkpoint and redo back up to it.
	assert.True(t, undo(t, u))
	require.NoError(t, u.RedoToCheckpoint(cp))
	assert.Equal(t, []item{"a"}, u.Items())
	assert.True(t, u.CanRedo())
}

func TestCheckpointInvalidation(t *testing.T) {
	u := newItems(t)
	push(t, u, "a", "b")
	cp := u.Checkpoint()
	assert.True(t, undo(t, u))
	push(t, u, "c") // prunes the group cp pointed at
	assert.ErrorIs(t, u.UndoToCheckpoint(cp), ErrCheckpointInvalid)

	cp = u.Checkpoint()
	require.NoError(t, u.ClearUndo())
	assert.ErrorIs(t, u.UndoToCheckpoint(cp), ErrCheckpointInvalid)

	bounded := newItems(t, WithMaxDepth(1))
	start := bounded.Checkpoint()
	push(t, bounded, "1", "2")
	assert.ErrorIs(t, bounded.UndoToCheckpoint(start), ErrCheckpointInvalid)
}
