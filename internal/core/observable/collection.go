// Package observable wraps vector.Vector with synchronous change notification.
//
// Every mutating call applies the mutation first, then hands one Change to the
// collection's Recorder, then fans the same Change out to listeners in
// registration order. Listeners therefore always observe post-mutation state
// while the Change carries the values captured beforehand.
package observable

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/bethropolis/tidelist/internal/core/vector"
	"github.com/bethropolis/tidelist/internal/logger"
)

var (
	// ErrInvalidState is the root of every lifecycle/contract violation.
	ErrInvalidState = errors.New("invalid state")
	// ErrDisposed is returned by mutators once Dispose has been called.
	ErrDisposed = fmt.Errorf("%w: collection disposed", ErrInvalidState)
	// ErrReentrantMutation is returned when a listener tries to mutate the
	// collection that is currently notifying it.
	ErrReentrantMutation = fmt.Errorf("%w: mutation during change notification", ErrInvalidState)
)

// Recorder receives every Change before listeners do.
type Recorder[T any] interface {
	Record(Change[T])
}

// NopRecorder discards every Change.
type NopRecorder[T any] struct{}

// Record implements Recorder.
func (NopRecorder[T]) Record(Change[T]) {}

// Listener is called once per Change with the collection that produced it.
type Listener[T any] func(source *Collection[T], ch Change[T])

// ListenerID identifies a subscription.
type ListenerID uint64

// ListenerPolicy decides what happens when a listener panics.
type ListenerPolicy int

const (
	// ListenerIsolate recovers the panic, logs it and keeps notifying the rest.
	ListenerIsolate ListenerPolicy = iota
	// ListenerPropagate lets the panic unwind into the mutating caller.
	ListenerPropagate
)

// ParseListenerPolicy maps "isolate"/"propagate" (case-insensitive) to a policy.
func ParseListenerPolicy(s string) (ListenerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "isolate":
		return ListenerIsolate, nil
	case "propagate":
		return ListenerPropagate, nil
	}
	return ListenerIsolate, fmt.Errorf("unknown listener policy %q", s)
}

// String implements fmt.Stringer.
func (p ListenerPolicy) String() string {
	if p == ListenerPropagate {
		return "propagate"
	}
	return "isolate"
}

type subscription[T any] struct {
	id ListenerID
	fn Listener[T]
}

// Collection is an observable ordered collection. It is single-threaded:
// callers must not use it from more than one goroutine.
type Collection[T any] struct {
	vec       *vector.Vector[T]
	recorder  Recorder[T]
	listeners []subscription[T]
	nextID    ListenerID
	policy    ListenerPolicy
	notifying int
	disposed  bool
}

// New creates a collection holding items. No change is emitted for them.
func New[T any](items ...T) *Collection[T] {
	return &Collection[T]{
		vec:      vector.New(items...),
		recorder: NopRecorder[T]{},
	}
}

// SetRecorder replaces the recorder. A nil recorder installs NopRecorder.
func (c *Collection[T]) SetRecorder(r Recorder[T]) {
	if r == nil {
		r = NopRecorder[T]{}
	}
	c.recorder = r
}

// SetListenerPolicy selects how listener panics are handled.
func (c *Collection[T]) SetListenerPolicy(p ListenerPolicy) {
	c.policy = p
}

// Subscribe registers fn and returns an id for Unsubscribe.
func (c *Collection[T]) Subscribe(fn Listener[T]) ListenerID {
	c.nextID++
	c.listeners = append(c.listeners, subscription[T]{id: c.nextID, fn: fn})
	return c.nextID
}

// Unsubscribe removes a listener. It reports whether id was registered.
func (c *Collection[T]) Unsubscribe(id ListenerID) bool {
	for i, s := range c.listeners {
		if s.id == id {
			c.listeners = slices.Delete(c.listeners, i, i+1)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of registered listeners.
func (c *Collection[T]) ListenerCount() int {
	return len(c.listeners)
}

// Notifying reports whether listeners are currently being called.
func (c *Collection[T]) Notifying() bool {
	return c.notifying > 0
}

// --- Queries ---

// Len returns the number of elements.
func (c *Collection[T]) Len() int { return c.vec.Len() }

// IsEmpty reports whether the collection holds no elements.
func (c *Collection[T]) IsEmpty() bool { return c.vec.IsEmpty() }

// At returns the element at index i.
func (c *Collection[T]) At(i int) (T, error) { return c.vec.At(i) }

// Items returns a copy of the contents.
func (c *Collection[T]) Items() []T { return c.vec.Items() }

// All iterates the live contents.
func (c *Collection[T]) All() iter.Seq2[int, T] { return c.vec.All() }

// IndexFunc returns the index of the first element matching pred, or -1.
func (c *Collection[T]) IndexFunc(pred func(T) bool) int { return c.vec.IndexFunc(pred) }

// --- Mutators ---

func (c *Collection[T]) checkMutable() error {
	if c.disposed {
		return ErrDisposed
	}
	if c.notifying > 0 {
		return ErrReentrantMutation
	}
	return nil
}

// Set replaces the element at i.
func (c *Collection[T]) Set(i int, v T) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	old, err := c.vec.Set(i, v)
	if err != nil {
		return err
	}
	c.emit(setChange(i, old, v))
	return nil
}

// PushBack appends v and returns its index.
func (c *Collection[T]) PushBack(v T) (int, error) {
	if err := c.checkMutable(); err != nil {
		return -1, err
	}
	i := c.vec.PushBack(v)
	c.emit(insertChange(i, v))
	return i, nil
}

// PopBack removes the last element. ok is false, and nothing is emitted,
// when the collection is empty.
func (c *Collection[T]) PopBack() (v T, ok bool, err error) {
	if err = c.checkMutable(); err != nil {
		return v, false, err
	}
	v, ok = c.vec.PopBack()
	if !ok {
		return v, false, nil
	}
	c.emit(removeChange(c.vec.Len(), v))
	return v, true, nil
}

// Insert places v at index i (0 <= i <= Len).
func (c *Collection[T]) Insert(i int, v T) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if err := c.vec.Insert(i, v); err != nil {
		return err
	}
	c.emit(insertChange(i, v))
	return nil
}

// Remove deletes and returns the element at i.
func (c *Collection[T]) Remove(i int) (T, error) {
	if err := c.checkMutable(); err != nil {
		var zero T
		return zero, err
	}
	old, err := c.vec.Remove(i)
	if err != nil {
		return old, err
	}
	c.emit(removeChange(i, old))
	return old, nil
}

// RemoveFunc removes the first element matching pred and returns its former
// index, or -1 when nothing matched (no change is emitted then).
func (c *Collection[T]) RemoveFunc(pred func(T) bool) (int, error) {
	if err := c.checkMutable(); err != nil {
		return -1, err
	}
	i := c.vec.IndexFunc(pred)
	if i < 0 {
		return -1, nil
	}
	if _, err := c.Remove(i); err != nil {
		return -1, err
	}
	return i, nil
}

// Clear removes every element.
func (c *Collection[T]) Clear() error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	removed := c.vec.Clear()
	c.emit(clearChange(removed))
	return nil
}

// Swap exchanges contents with other. other ends up holding what the
// collection held before; it must not be the collection's own storage.
func (c *Collection[T]) Swap(other *vector.Vector[T]) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if other == nil {
		other = vector.New[T]()
	}
	before := c.vec.Items()
	c.vec.Swap(other)
	c.emit(swapChange(before, c.vec.Items()))
	return nil
}

// --- Lifecycle ---

// Dispose clears the contents without notification and detaches every
// listener and the recorder. Calling it again does nothing.
func (c *Collection[T]) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.vec.Clear()
	c.listeners = nil
	c.recorder = NopRecorder[T]{}
	logger.Debugf("observable: collection disposed")
}

// IsDisposed reports whether Dispose has been called.
func (c *Collection[T]) IsDisposed() bool {
	return c.disposed
}

func (c *Collection[T]) emit(ch Change[T]) {
	c.recorder.Record(ch)
	if len(c.listeners) == 0 {
		return
	}

	// Copy so Subscribe/Unsubscribe from inside a listener doesn't disturb this pass.
	subs := slices.Clone(c.listeners)

	c.notifying++
	defer func() { c.notifying-- }()
	for _, s := range subs {
		c.deliver(s, ch)
	}
}

func (c *Collection[T]) deliver(s subscription[T], ch Change[T]) {
	if c.policy == ListenerIsolate {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("observable: listener %d panicked on %s: %v", s.id, ch.Type, r)
			}
		}()
	}
	s.fn(c, ch)
}
