// Package plain defines the JSON-like value tree used to store elements in
// undo history: nil, bool, string, numbers, []any and map[string]any.
package plain

import (
	"errors"
	"fmt"
	"math"
)

// Data is one node of a plain value tree.
type Data = any

// Marshaler is implemented by elements that can describe themselves as plain data.
type Marshaler interface {
	ToPlainData() Data
}

// ErrInvalidData reports a node that is not representable as plain data.
var ErrInvalidData = errors.New("invalid plain data")

// Validate walks d and fails on the first node that is not plain data.
func Validate(d Data) error {
	return validate(d, "$")
}

func validate(d Data, path string) error {
	switch v := d.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32:
		return nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite number at %s", ErrInvalidData, path)
		}
		return nil
	case []any:
		for i, item := range v {
			if err := validate(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		for k, item := range v {
			if err := validate(item, path+"."+k); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %T at %s", ErrInvalidData, d, path)
	}
}

// Clone returns a deep copy of d. Lists and maps are copied, leaves are shared.
func Clone(d Data) Data {
	switch v := d.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Clone(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = Clone(item)
		}
		return out
	default:
		return d
	}
}

// Of converts m to plain data, deep-copying the result so later changes to m
// cannot reach into stored history.
func Of(m Marshaler) Data {
	return Clone(m.ToPlainData())
}
