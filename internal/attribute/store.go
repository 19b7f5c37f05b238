package attribute

import (
	"iter"
	"maps"
	"slices"
)

// Reader is the read-only half of a Store
type Reader interface {
	Get(name string) (any, bool)
	GetKind(name string, kind Kind) (any, bool)
	Has(name string) bool
	HasKind(name string, kind Kind) bool
	Count() int
	Keys() iter.Seq[string]
	FirstOf(names ...string) (any, bool)
	FirstOfKind(kind Kind, names ...string) (any, bool)

	IsLabel(name string) bool
	IsNumber(name string) bool
	IsVector(name string) bool
	IsArray(name string) bool
	IsHash(name string) bool

	Label(name string) (string, bool)
	Number(name string) (float64, bool)
	Vector(name string) ([]float64, bool)
	Array(name string) (Array, bool)
	Hash(name string) (map[string]any, bool)
}

// Store maps attribute names to raw values. A Store belongs to exactly one
// element and is not safe for concurrent use.
type Store struct {
	values map[string]any
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{values: make(map[string]any)}
}

// Add stores the positional values under name (see Value) and returns the
// value it replaced, if any.
func (s *Store) Add(name string, values ...any) (old any, existed bool) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	old, existed = s.values[name]
	s.values[name] = Value(values...)
	return old, existed
}

// Change is an alias of Add
func (s *Store) Change(name string, values ...any) (old any, existed bool) {
	return s.Add(name, values...)
}

// Remove deletes name and returns the value it held
func (s *Store) Remove(name string) (old any, existed bool) {
	old, existed = s.values[name]
	if existed {
		delete(s.values, name)
	}
	return old, existed
}

// Clear empties the store and returns the removed names in sorted order
func (s *Store) Clear() []string {
	names := slices.Sorted(maps.Keys(s.values))
	clear(s.values)
	return names
}

// Get returns the raw value stored under name. A nil value with ok set
// means the attribute is present with a null value.
func (s *Store) Get(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// GetKind returns the value only when it classifies as kind
func (s *Store) GetKind(name string, kind Kind) (any, bool) {
	v, ok := s.values[name]
	if !ok || Classify(v) != kind {
		return nil, false
	}
	return v, true
}

// Has reports whether name is present, whatever its value
func (s *Store) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// HasKind reports whether name is present and classifies as kind
func (s *Store) HasKind(name string, kind Kind) bool {
	_, ok := s.GetKind(name, kind)
	return ok
}

// Count returns the number of distinct names
func (s *Store) Count() int {
	return len(s.values)
}

// Keys yields the attribute names in sorted order. Each iteration works on a
// snapshot taken when it starts, so the store may be mutated while ranging.
func (s *Store) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range slices.Sorted(maps.Keys(s.values)) {
			if !yield(name) {
				return
			}
		}
	}
}

// FirstOf returns the value of the first present name
func (s *Store) FirstOf(names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := s.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// FirstOfKind returns the value of the first present name classified as kind
func (s *Store) FirstOfKind(kind Kind, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := s.GetKind(name, kind); ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Store) IsLabel(name string) bool  { return s.HasKind(name, KindLabel) }
func (s *Store) IsNumber(name string) bool { return s.HasKind(name, KindNumber) }
func (s *Store) IsVector(name string) bool { return s.HasKind(name, KindVector) }
func (s *Store) IsArray(name string) bool  { return s.HasKind(name, KindArray) }
func (s *Store) IsHash(name string) bool   { return s.HasKind(name, KindHash) }

// Label returns the string stored under name
func (s *Store) Label(name string) (string, bool) {
	v, ok := s.GetKind(name, KindLabel)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Number returns the numeric scalar stored under name as a float64
func (s *Store) Number(name string) (float64, bool) {
	return Number(s.values[name])
}

// Vector returns a copy of the vector stored under name
func (s *Store) Vector(name string) ([]float64, bool) {
	return Vector(s.values[name])
}

// Array returns the array stored under name
func (s *Store) Array(name string) (Array, bool) {
	switch arr := s.values[name].(type) {
	case Array:
		return arr, true
	case []any:
		return Array(arr), true
	default:
		return nil, false
	}
}

// Hash returns the mapping stored under name, materializing compound values
func (s *Store) Hash(name string) (map[string]any, bool) {
	return Hash(s.values[name])
}

// As returns the value stored under name when it has type T
func As[T any](r Reader, name string) (T, bool) {
	var zero T
	v, ok := r.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
