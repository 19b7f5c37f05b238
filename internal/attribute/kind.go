package attribute

import (
	"maps"
	"reflect"
)

// Kind is the structural classification of a stored attribute value
type Kind string

const (
	KindNull     Kind = "null"     // Present with a nil value
	KindPresence Kind = "presence" // Simple attribute, a bool flag
	KindLabel    Kind = "label"    // A string
	KindNumber   Kind = "number"   // Any numeric scalar
	KindVector   Kind = "vector"   // An ordered sequence of numbers
	KindArray    Kind = "array"    // A heterogeneous fixed sequence
	KindHash     Kind = "hash"     // A string-keyed mapping or compound value
	KindOther    Kind = "other"    // Anything outside the closed shape set
)

// Array is the heterogeneous array shape, produced when an attribute is
// added with more than one positional value.
type Array []any

// Compound is implemented by values that expose a named key and a
// materialization to a mapping. Compound values are classified as hashes.
type Compound interface {
	Key() string
	ToMap() map[string]any
}

// Cloner lets a value control how it is copied when an event carrying it is
// captured for another goroutine.
type Cloner interface {
	Clone() any
}

// Classify returns the single kind a raw value belongs to
func Classify(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindPresence
	case string:
		return KindLabel
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return KindNumber
	case []float64, []float32, []int, []int32, []int64:
		return KindVector
	case Array, []any:
		return KindArray
	case map[string]any, map[string]string, Compound:
		return KindHash
	}
	if isStringMap(reflect.ValueOf(v)) {
		return KindHash
	}
	return KindOther
}

// isStringMap matches named map types keyed by strings
func isStringMap(rv reflect.Value) bool {
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// Value materializes positional values the way an attribute stores them:
// no value is a presence flag, one value is stored as is and several values
// become an Array.
func Value(values ...any) any {
	switch len(values) {
	case 0:
		return true
	case 1:
		return values[0]
	default:
		arr := make(Array, len(values))
		copy(arr, values)
		return arr
	}
}

// Number converts a numeric scalar to float64
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// Vector converts any vector shape to a fresh []float64
func Vector(v any) ([]float64, bool) {
	switch vec := v.(type) {
	case []float64:
		return append([]float64(nil), vec...), true
	case []float32:
		return convert(vec), true
	case []int:
		return convert(vec), true
	case []int32:
		return convert(vec), true
	case []int64:
		return convert(vec), true
	default:
		return nil, false
	}
}

func convert[T float32 | int | int32 | int64](in []T) []float64 {
	out := make([]float64, len(in))
	for i, n := range in {
		out[i] = float64(n)
	}
	return out
}

// Hash materializes any hash shape as a fresh map[string]any
func Hash(v any) (map[string]any, bool) {
	switch h := v.(type) {
	case map[string]any:
		return maps.Clone(h), true
	case map[string]string:
		out := make(map[string]any, len(h))
		for k, s := range h {
			out[k] = s
		}
		return out, true
	case Compound:
		return maps.Clone(h.ToMap()), true
	}

	rv := reflect.ValueOf(v)
	if !isStringMap(rv) {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// Clone returns a copy of v that shares no mutable state with it. Cloner
// values copy themselves. Slices and maps, named or not, are copied
// recursively and keep their type. A Compound backed by anything else is
// replaced by a copy of its ToMap. Remaining values are returned as is, so
// a value holding pointers must implement Cloner to be detached.
func Clone(v any) any {
	switch val := v.(type) {
	case Cloner:
		return val.Clone()
	case []float64:
		return append([]float64(nil), val...)
	case []float32:
		return append([]float32(nil), val...)
	case []int:
		return append([]int(nil), val...)
	case []int32:
		return append([]int32(nil), val...)
	case []int64:
		return append([]int64(nil), val...)
	case Array:
		out := make(Array, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Clone(item)
		}
		return out
	case map[string]string:
		return maps.Clone(val)
	}
	return cloneReflect(v)
}

func cloneReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), cloneElem(iter.Value(), rv.Type().Elem()))
		}
		return out.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(cloneElem(rv.Index(i), rv.Type().Elem()))
		}
		return out.Interface()
	}

	if c, ok := v.(Compound); ok {
		return Clone(maps.Clone(c.ToMap()))
	}
	return v
}

// cloneElem clones one map or slice element, falling back to the original
// when the copy no longer fits the container's element type.
func cloneElem(item reflect.Value, elem reflect.Type) reflect.Value {
	c := reflect.ValueOf(Clone(item.Interface()))
	if !c.IsValid() {
		return reflect.Zero(elem)
	}
	if !c.Type().AssignableTo(elem) {
		return item
	}
	return c
}
