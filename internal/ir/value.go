package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface for declarative attribute literals.
// Only String, Int, Bool, Array and Object implement it.
// No float type: floats break canonical hashing and are rejected.
type Value interface {
	irValue()
}

// String is a string literal.
type String string

func (String) irValue() {}

// Int is an integer literal. Always int64.
type Int int64

func (Int) irValue() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) irValue() {}

// Array is an ordered list of literals.
type Array []Value

func (Array) irValue() {}

// Object is a string-keyed map of literals.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) irValue() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's native string order compares UTF-8 bytes, which differs for
// characters outside the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// FromGo converts a native Go value into a Value.
//
// Accepted: Value, string, bool, every signed and unsigned integer type that
// fits int64, []any, []string, map[string]any. Floats and nil are rejected.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a valid literal")
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case uint:
		if uint64(val) > 1<<63-1 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int(val), nil
	case float32, float64:
		return nil, fmt.Errorf("floats are forbidden: %v", val)
	case json.Number:
		return numberValue(val)
	case []string:
		arr := make(Array, len(val))
		for i, s := range val {
			arr[i] = String(s)
		}
		return arr, nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			ev, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = ev
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			ev, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = ev
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// ToGo converts a Value into the native Go value stored in attribute
// tables: string, int64, bool, []any or map[string]any.
func ToGo(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Bool:
		return bool(val)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToGo(elem)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = ToGo(elem)
		}
		return out
	default:
		return nil
	}
}

// ParseValue decodes JSON into a Value with strict validation: floats and
// null are rejected.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return FromGo(raw)
}

func numberValue(n json.Number) (Value, error) {
	s := string(n)
	if strings.ContainsAny(s, ".eE") {
		return nil, fmt.Errorf("floats are forbidden: %s", s)
	}
	i, err := n.Int64()
	if err != nil {
		return nil, fmt.Errorf("number out of int64 range: %s", s)
	}
	return Int(i), nil
}

// MarshalJSON implements json.Marshaler with RFC 8785 key order.
// This is display JSON; use MarshalCanonical for hashing.
func (obj Object) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(obj)
}

// UnmarshalJSON implements json.Unmarshaler with float rejection.
func (obj *Object) UnmarshalJSON(data []byte) error {
	v, err := ParseValue(data)
	if err != nil {
		return err
	}
	o, ok := v.(Object)
	if !ok {
		return fmt.Errorf("expected JSON object, got %T", v)
	}
	*obj = o
	return nil
}

// Describe renders a native attribute value for humans: strings are
// quoted, literals use canonical JSON, anything else uses %v.
func Describe(v any) string {
	if v == nil {
		return "<nil>"
	}
	lit, err := FromGo(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	b, err := MarshalCanonical(lit)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
