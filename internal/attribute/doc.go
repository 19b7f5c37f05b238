// Package attribute implements the attribute store attached to every graph
// element and the classification of attribute values.
//
// Values are stored raw. Their shape is derived on demand by Classify, which
// maps every value to exactly one Kind:
//
//   - presence: a bool flag, the default for an attribute added without value
//   - label: a string
//   - number: any Go integer or float scalar
//   - vector: []float64, []float32, []int, []int32 or []int64
//   - array: Array or []any, built from several positional values
//   - hash: any map keyed by strings, named or not, or a Compound value
//
// Values crossing goroutines are detached with Clone, which copies slices
// and maps recursively. Other values holding pointers implement Cloner.
//
// A nil value is legal and distinct from an absent attribute.
//
// Typed getters fail softly: asking for a label stored as a number returns
// false instead of an error.
package attribute
