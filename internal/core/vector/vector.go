// Package vector provides the ordered collection primitive the observable
// and undoable layers are built on: a resizable, randomly indexable sequence
// with checked index access.
package vector

import (
	"errors"
	"fmt"
	"iter"
)

// ErrIndexOutOfRange is returned (wrapped in an *IndexError) when an index
// falls outside the valid range for an operation.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError describes a rejected index.
type IndexError struct {
	Op    string // Operation that rejected the index (e.g. "at", "insert")
	Index int
	Len   int // Length of the vector at the time of the call
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("vector %s: index %d out of range [0,%d)", e.Op, e.Index, e.Len)
}

// Unwrap lets errors.Is match ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// Vector is an ordered sequence of T. Positions are not keys; duplicates are allowed.
// A Vector is not safe for concurrent use.
type Vector[T any] struct {
	items []T
}

// New creates a vector holding a copy of items.
func New[T any](items ...T) *Vector[T] {
	v := &Vector[T]{}
	if len(items) > 0 {
		v.items = make([]T, len(items))
		copy(v.items, items)
	}
	return v
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return len(v.items)
}

// IsEmpty reports whether the vector holds no elements.
func (v *Vector[T]) IsEmpty() bool {
	return len(v.items) == 0
}

// At returns the element at index i.
func (v *Vector[T]) At(i int) (T, error) {
	if i < 0 || i >= len(v.items) {
		var zero T
		return zero, &IndexError{Op: "at", Index: i, Len: len(v.items)}
	}
	return v.items[i], nil
}

// Set replaces the element at index i and returns the previous element.
func (v *Vector[T]) Set(i int, val T) (T, error) {
	if i < 0 || i >= len(v.items) {
		var zero T
		return zero, &IndexError{Op: "set", Index: i, Len: len(v.items)}
	}
	old := v.items[i]
	v.items[i] = val
	return old, nil
}

// PushBack appends val and returns its index.
func (v *Vector[T]) PushBack(val T) int {
	v.items = append(v.items, val)
	return len(v.items) - 1
}

// PopBack removes and returns the last element. ok is false if the vector was empty.
func (v *Vector[T]) PopBack() (val T, ok bool) {
	n := len(v.items)
	if n == 0 {
		return val, false
	}
	val = v.items[n-1]
	var zero T
	v.items[n-1] = zero // drop the reference held by the backing array
	v.items = v.items[:n-1]
	return val, true
}

// Insert places val at index i, shifting later elements up.
// i may equal Len (append); anything outside [0, Len] is rejected.
func (v *Vector[T]) Insert(i int, val T) error {
	if i < 0 || i > len(v.items) {
		return &IndexError{Op: "insert", Index: i, Len: len(v.items)}
	}
	var zero T
	v.items = append(v.items, zero)
	copy(v.items[i+1:], v.items[i:])
	v.items[i] = val
	return nil
}

// Remove deletes the element at index i and returns it.
func (v *Vector[T]) Remove(i int) (T, error) {
	if i < 0 || i >= len(v.items) {
		var zero T
		return zero, &IndexError{Op: "remove", Index: i, Len: len(v.items)}
	}
	old := v.items[i]
	copy(v.items[i:], v.items[i+1:])
	var zero T
	v.items[len(v.items)-1] = zero
	v.items = v.items[:len(v.items)-1]
	return old, nil
}

// Clear removes every element and returns them in order.
func (v *Vector[T]) Clear() []T {
	removed := v.items
	v.items = nil
	return removed
}

// Swap exchanges contents with other. Only the slice headers move.
func (v *Vector[T]) Swap(other *Vector[T]) {
	if other == nil || other == v {
		return
	}
	v.items, other.items = other.items, v.items
}

// Items returns a copy of the current contents.
func (v *Vector[T]) Items() []T {
	out := make([]T, len(v.items))
	copy(out, v.items)
	return out
}

// IndexFunc returns the index of the first element satisfying pred, or -1.
func (v *Vector[T]) IndexFunc(pred func(T) bool) int {
	for i, item := range v.items {
		if pred(item) {
			return i
		}
	}
	return -1
}

// All returns a lazy sequence over the vector. Each step reads the live
// storage, so mutations made during iteration are observed at the current
// position rather than hidden behind a snapshot. Ranging again restarts it.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < len(v.items); i++ {
			if !yield(i, v.items[i]) {
				return
			}
		}
	}
}
