// Package history adds compound-aware undo/redo to an observable collection.
package history

import (
	"fmt"
	"strings"

	"github.com/bethropolis/tidelist/internal/core/observable"
	"github.com/bethropolis/tidelist/internal/core/plain"
)

// Value is the serialized counterpart of observable.Value.
type Value struct {
	Kind observable.ValueKind
	One  plain.Data
	Seq  []plain.Data
}

// Record is the serialized counterpart of observable.Change. It holds plain
// data only, never live elements.
type Record struct {
	Type     observable.ChangeType
	OldIndex int
	OldValue Value
	NewIndex int
	NewValue Value
}

// Group is one undo unit: the records of a single mutation or of one
// compound operation, in the order they were applied.
type Group []Record

func encodeValue[T plain.Marshaler](v observable.Value[T]) Value {
	switch v.Kind() {
	case observable.KindSingle:
		one, _ := v.One()
		return Value{Kind: observable.KindSingle, One: plain.Of(one)}
	case observable.KindSequence:
		items, _ := v.Seq()
		seq := make([]plain.Data, len(items))
		for i, item := range items {
			seq[i] = plain.Of(item)
		}
		return Value{Kind: observable.KindSequence, Seq: seq}
	default:
		return Value{}
	}
}

func encode[T plain.Marshaler](ch observable.Change[T]) Record {
	return Record{
		Type:     ch.Type,
		OldIndex: ch.OldIndex,
		OldValue: encodeValue(ch.OldValue),
		NewIndex: ch.NewIndex,
		NewValue: encodeValue(ch.NewValue),
	}
}

func (v Value) clone() Value {
	out := Value{Kind: v.Kind, One: plain.Clone(v.One)}
	if v.Seq != nil {
		out.Seq = make([]plain.Data, len(v.Seq))
		for i, d := range v.Seq {
			out.Seq[i] = plain.Clone(d)
		}
	}
	return out
}

func (g Group) clone() Group {
	out := make(Group, len(g))
	for i, r := range g {
		r.OldValue = r.OldValue.clone()
		r.NewValue = r.NewValue.clone()
		out[i] = r
	}
	return out
}

// String summarizes the record, e.g. "insert @2 map[done:false text:milk]".
func (r Record) String() string {
	switch r.Type {
	case observable.Insert:
		return fmt.Sprintf("insert @%d %v", r.NewIndex, r.NewValue.One)
	case observable.Remove:
		return fmt.Sprintf("remove @%d %v", r.OldIndex, r.OldValue.One)
	case observable.Set:
		return fmt.Sprintf("set @%d %v -> %v", r.NewIndex, r.OldValue.One, r.NewValue.One)
	case observable.Clear:
		return fmt.Sprintf("clear %d", len(r.OldValue.Seq))
	case observable.Swap:
		return fmt.Sprintf("swap %d -> %d", len(r.OldValue.Seq), len(r.NewValue.Seq))
	default:
		return r.Type.String()
	}
}

// String joins the record summaries with "; ".
func (g Group) String() string {
	parts := make([]string, len(g))
	for i, r := range g {
		parts[i] = r.String()
	}
	return strings.Join(parts, "; ")
}
