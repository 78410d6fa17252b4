package history

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/bethropolis/tidelist/internal/core/observable"
	"github.com/bethropolis/tidelist/internal/core/plain"
	"github.com/bethropolis/tidelist/internal/core/vector"
	"github.com/bethropolis/tidelist/internal/logger"
)

// SnapshotVersion is written into every snapshot document.
const SnapshotVersion = 1

// Snapshot encodes the contents and the history stack as a JSON document:
//
//	{"version":1,"cursor":0,"items":[...],"groups":[[{"type":"insert",...}]]}
//
// Values are stored as {"kind":"single","data":...} or
// {"kind":"sequence","data":[...]}; absent values are omitted.
func (u *Undoable[T]) Snapshot() ([]byte, error) {
	if u.compoundDepth > 0 {
		return nil, ErrCompoundInProgress
	}
	doc := []byte(`{}`)
	var err error
	if doc, err = sjson.SetBytes(doc, "version", SnapshotVersion); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "cursor", u.cursor); err != nil {
		return nil, err
	}

	items := make([]any, 0, u.Len())
	for _, item := range u.All() {
		d := plain.Of(item)
		if err := plain.Validate(d); err != nil {
			return nil, fmt.Errorf("snapshot item: %w", err)
		}
		items = append(items, d)
	}
	if doc, err = sjson.SetBytes(doc, "items", items); err != nil {
		return nil, err
	}

	if doc, err = sjson.SetRawBytes(doc, "groups", []byte(`[]`)); err != nil {
		return nil, err
	}
	for gi, g := range u.groups {
		if doc, err = sjson.SetRawBytes(doc, "groups.-1", []byte(`[]`)); err != nil {
			return nil, err
		}
		path := fmt.Sprintf("groups.%d.-1", gi)
		for ri, r := range g {
			rec, err := encodeRecordJSON(r)
			if err != nil {
				return nil, fmt.Errorf("snapshot group %d record %d: %w", gi, ri, err)
			}
			if doc, err = sjson.SetRawBytes(doc, path, rec); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// SnapshotIndent is Snapshot, pretty-printed for display.
func (u *Undoable[T]) SnapshotIndent() ([]byte, error) {
	doc, err := u.Snapshot()
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(doc), nil
}

func encodeRecordJSON(r Record) ([]byte, error) {
	rec := []byte(`{}`)
	var err error
	if rec, err = sjson.SetBytes(rec, "type", r.Type.String()); err != nil {
		return nil, err
	}
	if rec, err = sjson.SetBytes(rec, "oldIndex", r.OldIndex); err != nil {
		return nil, err
	}
	if rec, err = setValueJSON(rec, "oldValue", r.OldValue); err != nil {
		return nil, err
	}
	if rec, err = sjson.SetBytes(rec, "newIndex", r.NewIndex); err != nil {
		return nil, err
	}
	return setValueJSON(rec, "newValue", r.NewValue)
}

func setValueJSON(rec []byte, key string, v Value) ([]byte, error) {
	var data any
	switch v.Kind {
	case observable.KindAbsent:
		return rec, nil
	case observable.KindSingle:
		data = v.One
	case observable.KindSequence:
		seq := v.Seq
		if seq == nil {
			seq = []plain.Data{}
		}
		data = seq
	}
	if err := plain.Validate(data); err != nil {
		return nil, err
	}
	rec, err := sjson.SetBytes(rec, key+".kind", v.Kind.String())
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(rec, key+".data", data)
}

// Restore replaces the contents and the history with a Snapshot document.
// Listeners see the new contents as a single swap; the swap itself is not
// recorded. Existing checkpoints become invalid.
func (u *Undoable[T]) Restore(doc []byte) error {
	if err := u.checkReplay(); err != nil {
		return err
	}
	if !gjson.ValidBytes(doc) {
		return fmt.Errorf("%w: snapshot is not valid JSON", ErrDecode)
	}
	root := gjson.ParseBytes(doc)
	if v := root.Get("version").Int(); v != SnapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", ErrDecode, v)
	}

	var items []T
	for i, res := range root.Get("items").Array() {
		item, err := u.factory(res.Value())
		if err != nil {
			return fmt.Errorf("%w: item %d: %w", ErrDecode, i, err)
		}
		items = append(items, item)
	}

	var groups []Group
	for gi, gres := range root.Get("groups").Array() {
		var g Group
		for ri, rres := range gres.Array() {
			r, err := decodeRecordJSON(rres)
			if err != nil {
				return fmt.Errorf("%w: group %d record %d: %w", ErrDecode, gi, ri, err)
			}
			g = append(g, r)
		}
		if len(g) == 0 {
			return fmt.Errorf("%w: group %d is empty", ErrDecode, gi)
		}
		groups = append(groups, g)
	}

	cursor := int(root.Get("cursor").Int())
	if cursor < -1 || cursor >= len(groups) {
		return fmt.Errorf("%w: cursor %d outside history of %d groups", ErrDecode, cursor, len(groups))
	}

	u.replaying = true
	err := u.Collection.Swap(vector.New(items...))
	u.replaying = false
	if err != nil {
		return err
	}

	u.groups = groups
	u.ids = make([]uint64, len(groups))
	for i := range u.ids {
		u.nextID++
		u.ids[i] = u.nextID
	}
	u.cursor = cursor
	u.evicted = 0
	u.gen++
	u.trim()
	logger.Debugf("history: restored %d items, %d groups, cursor=%d", len(items), len(groups), cursor)
	return nil
}

func decodeRecordJSON(res gjson.Result) (Record, error) {
	t, err := observable.ParseChangeType(res.Get("type").String())
	if err != nil {
		return Record{}, err
	}
	r := Record{
		Type:     t,
		OldIndex: int(res.Get("oldIndex").Int()),
		NewIndex: int(res.Get("newIndex").Int()),
	}
	if r.OldValue, err = decodeValueJSON(res.Get("oldValue")); err != nil {
		return Record{}, fmt.Errorf("oldValue: %w", err)
	}
	if r.NewValue, err = decodeValueJSON(res.Get("newValue")); err != nil {
		return Record{}, fmt.Errorf("newValue: %w", err)
	}
	return r, nil
}

func decodeValueJSON(res gjson.Result) (Value, error) {
	if !res.Exists() {
		return Value{}, nil
	}
	data := res.Get("data")
	switch kind := res.Get("kind").String(); kind {
	case observable.KindSingle.String():
		return Value{Kind: observable.KindSingle, One: data.Value()}, nil
	case observable.KindSequence.String():
		if !data.IsArray() {
			return Value{}, fmt.Errorf("sequence data is not an array")
		}
		arr := data.Array()
		seq := make([]plain.Data, len(arr))
		for i, item := range arr {
			seq[i] = item.Value()
		}
		return Value{Kind: observable.KindSequence, Seq: seq}, nil
	default:
		return Value{}, fmt.Errorf("unknown value kind %q", kind)
	}
}
