package observable

import "fmt"

// ChangeType identifies which mutation produced a Change.
type ChangeType int

const (
	Insert ChangeType = iota
	Remove
	Set
	Clear
	Swap
)

var changeTypeNames = [...]string{
	Insert: "insert",
	Remove: "remove",
	Set:    "set",
	Clear:  "clear",
	Swap:   "swap",
}

// String returns the lower-case name used in logs and snapshots.
func (t ChangeType) String() string {
	if t < 0 || int(t) >= len(changeTypeNames) {
		return fmt.Sprintf("ChangeType(%d)", int(t))
	}
	return changeTypeNames[t]
}

// ParseChangeType is the inverse of String.
func ParseChangeType(s string) (ChangeType, error) {
	for i, name := range changeTypeNames {
		if name == s {
			return ChangeType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown change type %q", s)
}

// ValueKind tags the payload held by a Value.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindSingle
	KindSequence
)

// String implements fmt.Stringer.
func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindSingle:
		return "single"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is the payload slot of a Change: nothing, one element, or a run of elements.
type Value[T any] struct {
	kind ValueKind
	one  T
	seq  []T
}

// Absent returns the "unused" value.
func Absent[T any]() Value[T] {
	return Value[T]{}
}

// Single wraps one element.
func Single[T any](v T) Value[T] {
	return Value[T]{kind: KindSingle, one: v}
}

// Sequence wraps a run of elements. The slice is retained, not copied.
func Sequence[T any](items []T) Value[T] {
	return Value[T]{kind: KindSequence, seq: items}
}

// Kind reports which payload v carries.
func (v Value[T]) Kind() ValueKind { return v.kind }

// IsAbsent reports whether v carries nothing.
func (v Value[T]) IsAbsent() bool { return v.kind == KindAbsent }

// One returns the single element, if that is what v holds.
func (v Value[T]) One() (T, bool) {
	return v.one, v.kind == KindSingle
}

// Seq returns the sequence, if that is what v holds.
func (v Value[T]) Seq() ([]T, bool) {
	return v.seq, v.kind == KindSequence
}

// Change describes one applied mutation. Unused indices are -1, unused
// values are Absent. Clear and swap records use index 0 on both sides.
type Change[T any] struct {
	Type     ChangeType
	OldIndex int
	OldValue Value[T]
	NewIndex int
	NewValue Value[T]
}

// String renders a compact description, mainly for debug logs.
func (c Change[T]) String() string {
	return fmt.Sprintf("%s{old=%d:%s new=%d:%s}", c.Type, c.OldIndex, c.OldValue.kind, c.NewIndex, c.NewValue.kind)
}

func insertChange[T any](i int, v T) Change[T] {
	return Change[T]{Type: Insert, OldIndex: -1, NewIndex: i, NewValue: Single(v)}
}

func removeChange[T any](i int, old T) Change[T] {
	return Change[T]{Type: Remove, OldIndex: i, OldValue: Single(old), NewIndex: -1}
}

func setChange[T any](i int, old, v T) Change[T] {
	return Change[T]{Type: Set, OldIndex: i, OldValue: Single(old), NewIndex: i, NewValue: Single(v)}
}

func clearChange[T any](removed []T) Change[T] {
	return Change[T]{Type: Clear, OldValue: Sequence(removed)}
}

func swapChange[T any](before, after []T) Change[T] {
	return Change[T]{Type: Swap, OldValue: Sequence(before), NewValue: Sequence(after)}
}
