package history

import (
	"fmt"
	"slices"

	"github.com/bethropolis/tidelist/internal/core/observable"
	"github.com/bethropolis/tidelist/internal/core/plain"
	"github.com/bethropolis/tidelist/internal/core/vector"
	"github.com/bethropolis/tidelist/internal/logger"
)

// Factory rebuilds an element from the plain data its ToPlainData produced.
type Factory[T any] func(plain.Data) (T, error)

// Option configures an Undoable.
type Option func(*options)

type options struct {
	maxDepth int
	policy   observable.ListenerPolicy
}

// WithMaxDepth bounds the number of undo groups kept. The oldest groups are
// evicted first. n <= 0 means unbounded.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithListenerPolicy sets the policy of the underlying collection.
func WithListenerPolicy(p observable.ListenerPolicy) Option {
	return func(o *options) { o.policy = p }
}

// Undoable is an observable collection that records every change it makes
// into a linear stack of groups and can replay them backwards and forwards.
//
// The cursor points at the last applied group; -1 means nothing to undo.
type Undoable[T plain.Marshaler] struct {
	*observable.Collection[T]

	factory Factory[T]
	groups  []Group
	ids     []uint64 // parallel to groups, for checkpoints
	nextID  uint64
	gen     uint64 // bumped whenever the stack is replaced wholesale
	evicted int
	cursor  int

	compoundDepth   int
	undoable        bool
	compoundChanged bool
	replaying       bool
	maxDepth        int

	journal *[]Record // changes of the innermost open GroupScope
}

type recorder[T plain.Marshaler] struct {
	u *Undoable[T]
}

func (r recorder[T]) Record(ch observable.Change[T]) {
	r.u.record(ch)
}

// New creates an empty undoable collection using factory to decode history.
func New[T plain.Marshaler](factory Factory[T], opts ...Option) *Undoable[T] {
	if factory == nil {
		panic("history: nil factory")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	u := &Undoable[T]{
		Collection: observable.New[T](),
		factory:    factory,
		cursor:     -1,
		undoable:   true,
		maxDepth:   o.maxDepth,
	}
	u.Collection.SetRecorder(recorder[T]{u: u})
	u.Collection.SetListenerPolicy(o.policy)
	return u
}

// record is called by the collection for every applied change.
func (u *Undoable[T]) record(ch observable.Change[T]) {
	if u.replaying {
		return
	}

	rec := encode(ch)
	if u.journal != nil {
		*u.journal = append(*u.journal, rec)
	}
	if u.compoundDepth > 0 && !u.undoable {
		return
	}
	if u.compoundDepth > 0 && u.compoundChanged {
		last := len(u.groups) - 1
		u.groups[last] = append(u.groups[last], rec)
		logger.Debugf("history: appended %s to compound group %d (%d records)", ch.Type, last, len(u.groups[last]))
		return
	}

	// A new group prunes the abandoned redo branch.
	u.pruneRedo()
	u.nextID++
	u.groups = append(u.groups, Group{rec})
	u.ids = append(u.ids, u.nextID)

	if u.compoundDepth > 0 {
		u.compoundChanged = true
		logger.Debugf("history: opened compound group %d with %s", len(u.groups)-1, ch.Type)
		return
	}
	u.cursor++
	u.trim()
	logger.Debugf("history: recorded %s, cursor=%d depth=%d", ch.Type, u.cursor, len(u.groups))
}

func (u *Undoable[T]) pruneRedo() {
	if u.cursor+1 < len(u.groups) {
		logger.Debugf("history: discarding %d redo group(s)", len(u.groups)-u.cursor-1)
		u.groups = slices.Delete(u.groups, u.cursor+1, len(u.groups))
		u.ids = slices.Delete(u.ids, u.cursor+1, len(u.ids))
	}
}

func (u *Undoable[T]) trim() {
	if u.maxDepth <= 0 || len(u.groups) <= u.maxDepth {
		return
	}
	drop := len(u.groups) - u.maxDepth
	u.groups = slices.Delete(u.groups, 0, drop)
	u.ids = slices.Delete(u.ids, 0, drop)
	u.evicted += drop
	u.cursor = max(u.cursor-drop, -1)
	logger.Debugf("history: evicted %d group(s) over max depth %d", drop, u.maxDepth)
}

// --- Compound operations ---

// BeginCompoundOperation starts a span whose changes undo as one step. With
// undoable=false the span is not recorded at all. Nested calls join the
// outermost span and keep its undoable setting.
func (u *Undoable[T]) BeginCompoundOperation(undoable bool) error {
	if err := u.checkHistoryMutation(); err != nil {
		return err
	}
	u.compoundDepth++
	if u.compoundDepth == 1 {
		u.undoable = undoable
		u.compoundChanged = false
	}
	return nil
}

// EndCompoundOperation closes the innermost span. Closing the outermost span
// advances the cursor by one if anything was recorded inside it.
func (u *Undoable[T]) EndCompoundOperation() error {
	if u.replaying || u.Notifying() {
		return observable.ErrReentrantMutation
	}
	if u.compoundDepth == 0 {
		return ErrNoCompoundOperation
	}
	u.compoundDepth--
	if u.compoundDepth > 0 {
		return nil
	}
	if u.compoundChanged {
		u.cursor++
		u.trim()
		logger.Debugf("history: closed compound group, cursor=%d depth=%d", u.cursor, len(u.groups))
	}
	u.compoundChanged = false
	u.undoable = true
	return nil
}

// InCompoundOperation reports whether a compound span is open.
func (u *Undoable[T]) InCompoundOperation() bool {
	return u.compoundDepth > 0
}

// --- Undo / redo ---

// checkHistoryMutation rejects changes to the history itself while a
// replay or a change notification is running.
func (u *Undoable[T]) checkHistoryMutation() error {
	switch {
	case u.IsDisposed():
		return observable.ErrDisposed
	case u.replaying || u.Notifying():
		return observable.ErrReentrantMutation
	}
	return nil
}

func (u *Undoable[T]) checkReplay() error {
	if err := u.checkHistoryMutation(); err != nil {
		return err
	}
	if u.compoundDepth > 0 {
		return ErrCompoundInProgress
	}
	return nil
}

// Undo reverts the group at the cursor. It returns false, nil when there is
// nothing to undo. If a record fails to apply, the records already reverted
// are re-applied and the cursor is left unchanged.
func (u *Undoable[T]) Undo() (bool, error) {
	if err := u.checkReplay(); err != nil {
		return false, err
	}
	if !u.CanUndo() {
		logger.Debugf("history: nothing to undo")
		return false, nil
	}

	idx := u.cursor
	group := u.groups[idx]
	u.replaying = true
	defer func() { u.replaying = false }()

	for i := len(group) - 1; i >= 0; i-- {
		if err := u.applyInverse(group[i]); err != nil {
			for j := i + 1; j < len(group); j++ {
				if rerr := u.applyForward(group[j]); rerr != nil {
					logger.Errorf("history: rollback of undo failed at record %d: %v", j, rerr)
					break
				}
			}
			return false, &ReplayError{Op: "undo", Group: idx, Record: i, Type: group[i].Type, Err: err}
		}
	}

	u.cursor--
	logger.Debugf("history: undid group %d (%d records), cursor=%d", idx, len(group), u.cursor)
	return true, nil
}

// Redo re-applies the group after the cursor. It returns false, nil when
// there is nothing to redo.
func (u *Undoable[T]) Redo() (bool, error) {
	if err := u.checkReplay(); err != nil {
		return false, err
	}
	if !u.CanRedo() {
		logger.Debugf("history: nothing to redo")
		return false, nil
	}

	idx := u.cursor + 1
	group := u.groups[idx]
	u.replaying = true
	defer func() { u.replaying = false }()

	for i, rec := range group {
		if err := u.applyForward(rec); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := u.applyInverse(group[j]); rerr != nil {
					logger.Errorf("history: rollback of redo failed at record %d: %v", j, rerr)
					break
				}
			}
			return false, &ReplayError{Op: "redo", Group: idx, Record: i, Type: rec.Type, Err: err}
		}
	}

	u.cursor = idx
	logger.Debugf("history: redid group %d (%d records), cursor=%d", idx, len(group), u.cursor)
	return true, nil
}

func (u *Undoable[T]) applyInverse(r Record) error {
	switch r.Type {
	case observable.Insert:
		_, err := u.Collection.Remove(r.NewIndex)
		return err
	case observable.Set:
		v, err := u.decodeOne(r.OldValue)
		if err != nil {
			return err
		}
		return u.Collection.Set(r.OldIndex, v)
	case observable.Remove:
		v, err := u.decodeOne(r.OldValue)
		if err != nil {
			return err
		}
		return u.Collection.Insert(r.OldIndex, v)
	case observable.Clear, observable.Swap:
		items, err := u.decodeSeq(r.OldValue)
		if err != nil {
			return err
		}
		return u.Collection.Swap(vector.New(items...))
	}
	return fmt.Errorf("%w: unknown change type %s", ErrDecode, r.Type)
}

func (u *Undoable[T]) applyForward(r Record) error {
	switch r.Type {
	case observable.Insert:
		v, err := u.decodeOne(r.NewValue)
		if err != nil {
			return err
		}
		return u.Collection.Insert(r.NewIndex, v)
	case observable.Set:
		v, err := u.decodeOne(r.NewValue)
		if err != nil {
			return err
		}
		return u.Collection.Set(r.NewIndex, v)
	case observable.Remove:
		_, err := u.Collection.Remove(r.OldIndex)
		return err
	case observable.Clear:
		return u.Collection.Clear()
	case observable.Swap:
		items, err := u.decodeSeq(r.NewValue)
		if err != nil {
			return err
		}
		return u.Collection.Swap(vector.New(items...))
	}
	return fmt.Errorf("%w: unknown change type %s", ErrDecode, r.Type)
}

func (u *Undoable[T]) decodeOne(v Value) (T, error) {
	if v.Kind != observable.KindSingle {
		var zero T
		return zero, fmt.Errorf("%w: expected single value, got %s", ErrDecode, v.Kind)
	}
	item, err := u.factory(plain.Clone(v.One))
	if err != nil {
		return item, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return item, nil
}

func (u *Undoable[T]) decodeSeq(v Value) ([]T, error) {
	if v.Kind != observable.KindSequence {
		return nil, fmt.Errorf("%w: expected sequence, got %s", ErrDecode, v.Kind)
	}
	items := make([]T, len(v.Seq))
	for i, d := range v.Seq {
		item, err := u.factory(plain.Clone(d))
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %w", ErrDecode, i, err)
		}
		items[i] = item
	}
	return items, nil
}

// ClearUndo empties the history. The contents are left alone. It fails
// during a replay or a change notification.
func (u *Undoable[T]) ClearUndo() error {
	if err := u.checkHistoryMutation(); err != nil {
		return err
	}
	u.groups = nil
	u.ids = nil
	u.cursor = -1
	u.evicted = 0
	u.gen++
	u.compoundChanged = false
	logger.Debugf("history: cleared")
	return nil
}

// SetRecorder always fails: the history owns the recorder of its collection.
func (u *Undoable[T]) SetRecorder(observable.Recorder[T]) error {
	return ErrRecorderOwned
}

// --- Queries ---

// CanUndo reports whether Undo would do something.
func (u *Undoable[T]) CanUndo() bool {
	return u.cursor >= 0
}

// CanRedo reports whether Redo would do something. A compound group that is
// still open is not redoable.
func (u *Undoable[T]) CanRedo() bool {
	committed := len(u.groups)
	if u.compoundChanged {
		committed--
	}
	return u.cursor < committed-1
}

// Cursor returns the index of the last applied group, or -1.
func (u *Undoable[T]) Cursor() int {
	return u.cursor
}

// Depth returns the number of groups on the stack, including redo groups.
func (u *Undoable[T]) Depth() int {
	return len(u.groups)
}

// Groups returns a deep copy of the history stack.
func (u *Undoable[T]) Groups() []Group {
	out := make([]Group, len(u.groups))
	for i, g := range u.groups {
		out[i] = g.clone()
	}
	return out
}

// Dispose disposes the collection and drops the history. Calling it again does nothing.
func (u *Undoable[T]) Dispose() {
	if u.IsDisposed() {
		return
	}
	u.Collection.Dispose()
	u.groups = nil
	u.ids = nil
	u.cursor = -1
	u.compoundDepth = 0
	u.compoundChanged = false
	u.journal = nil
}
