package history

import (
	"errors"

	"github.com/bethropolis/tidelist/internal/core/observable"
	"github.com/bethropolis/tidelist/internal/core/plain"
	"github.com/bethropolis/tidelist/internal/logger"
)

// GroupScope wraps a compound operation so it can be closed with defer:
//
//	scope, err := list.GroupScope(true)
//	if err != nil {
//		return err
//	}
//	defer scope.End()
//
// A scope keeps its own log of the changes made while it is open, so it can
// be cancelled even when it is nested in another span or the span records
// nothing.
type GroupScope[T plain.Marshaler] struct {
	u      *Undoable[T]
	active bool

	changes []Record
	outer   *[]Record // log of the enclosing scope
	opened  bool      // false if the recorded group already existed
	mark    int       // length of that group when the scope began
}

// GroupScope begins a compound operation and returns its scope.
func (u *Undoable[T]) GroupScope(undoable bool) (*GroupScope[T], error) {
	if err := u.BeginCompoundOperation(undoable); err != nil {
		return nil, err
	}
	g := &GroupScope[T]{u: u, active: true, outer: u.journal, opened: !u.compoundChanged}
	if !g.opened {
		g.mark = len(u.groups[len(u.groups)-1])
	}
	u.journal = &g.changes
	return g, nil
}

// End closes the scope. Only the first call has effect.
func (g *GroupScope[T]) End() error {
	if !g.active {
		return nil
	}
	if err := g.u.EndCompoundOperation(); err != nil {
		return err
	}
	g.active = false
	g.u.journal = g.outer
	if g.outer != nil {
		*g.outer = append(*g.outer, g.changes...)
	}
	return nil
}

// Cancel reverts the changes made since the scope began and closes it. What
// the scope recorded is dropped from the history, and nothing is kept for
// redo. Only the first call of End or Cancel has effect.
func (g *GroupScope[T]) Cancel() error {
	if !g.active {
		return nil
	}
	u := g.u
	if u.replaying || u.Notifying() {
		return observable.ErrReentrantMutation
	}
	g.active = false
	u.journal = g.outer

	rerr := u.revert(g.changes)
	if rerr == nil {
		u.dropRecorded(g.opened, g.mark)
	}
	if err := u.EndCompoundOperation(); err != nil {
		return errors.Join(rerr, err)
	}
	return rerr
}

// Transaction runs fn inside a compound operation. When fn fails, the
// changes it made are reverted and fn's error is returned. Inside an open
// span only fn's own changes are reverted.
func (u *Undoable[T]) Transaction(fn func() error) error {
	scope, err := u.GroupScope(true)
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		if cerr := scope.Cancel(); cerr != nil {
			logger.Errorf("history: transaction rollback failed: %v", cerr)
		}
		return err
	}
	return scope.End()
}

// revert applies the inverses of changes, newest first. If one fails, the
// ones already reverted are applied again.
func (u *Undoable[T]) revert(changes []Record) error {
	u.replaying = true
	defer func() { u.replaying = false }()

	for i := len(changes) - 1; i >= 0; i-- {
		if err := u.applyInverse(changes[i]); err != nil {
			for j := i + 1; j < len(changes); j++ {
				if rerr := u.applyForward(changes[j]); rerr != nil {
					logger.Errorf("history: rollback of cancel failed at record %d: %v", j, rerr)
					break
				}
			}
			return &ReplayError{Op: "cancel", Group: -1, Record: i, Type: changes[i].Type, Err: err}
		}
	}
	logger.Debugf("history: reverted %d change(s) of a cancelled scope", len(changes))
	return nil
}

// dropRecorded removes from the open compound group what a cancelled scope
// added to it: the whole group if the scope opened it, else the records
// after mark.
func (u *Undoable[T]) dropRecorded(opened bool, mark int) {
	if !u.compoundChanged {
		return
	}
	last := len(u.groups) - 1
	if opened {
		u.groups = u.groups[:last]
		u.ids = u.ids[:last]
		u.compoundChanged = false
		return
	}
	u.groups[last] = u.groups[last][:mark]
}

// Checkpoint marks a position in the history.
type Checkpoint struct {
	id      uint64 // id of the group at the cursor, 0 before the first group
	gen     uint64
	evicted int
}

// Checkpoint returns a mark for the current cursor position.
func (u *Undoable[T]) Checkpoint() Checkpoint {
	cp := Checkpoint{gen: u.gen, evicted: u.evicted}
	if u.cursor >= 0 {
		cp.id = u.ids[u.cursor]
	}
	return cp
}

func (u *Undoable[T]) checkpointIndex(cp Checkpoint) (int, error) {
	if cp.gen != u.gen {
		return 0, ErrCheckpointInvalid
	}
	if cp.id == 0 {
		if cp.evicted != u.evicted {
			return 0, ErrCheckpointInvalid
		}
		return -1, nil
	}
	for i, id := range u.ids {
		if id == cp.id {
			return i, nil
		}
	}
	return 0, ErrCheckpointInvalid
}

// UndoToCheckpoint undoes groups until the cursor is back at cp.
// It does nothing if the cursor is already at or before cp.
func (u *Undoable[T]) UndoToCheckpoint(cp Checkpoint) error {
	target, err := u.checkpointIndex(cp)
	if err != nil {
		return err
	}
	for u.cursor > target {
		if _, err := u.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes groups until the cursor reaches cp.
func (u *Undoable[T]) RedoToCheckpoint(cp Checkpoint) error {
	target, err := u.checkpointIndex(cp)
	if err != nil {
		return err
	}
	for u.cursor < target && u.CanRedo() {
		if _, err := u.Redo(); err != nil {
			return err
		}
	}
	return nil
}
