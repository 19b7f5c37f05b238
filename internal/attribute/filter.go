package attribute

import (
	"slices"
	"strings"
)

// Filter decides whether an attribute name passes a sink boundary. A nil
// Filter accepts every name.
type Filter func(name string) bool

// Accepts applies the filter, treating nil as accept-all
func (f Filter) Accepts(name string) bool {
	return f == nil || f(name)
}

// Prefix accepts names starting with any of the prefixes. With no prefixes
// it accepts everything.
func Prefix(prefixes ...string) Filter {
	if len(prefixes) == 0 {
		return nil
	}
	prefixes = slices.Clone(prefixes)
	return func(name string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(name, p) {
				return true
			}
		}
		return false
	}
}

// Exact accepts only the listed names
func Exact(names ...string) Filter {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(name string) bool {
		_, ok := set[name]
		return ok
	}
}

// Not inverts a filter
func Not(f Filter) Filter {
	return func(name string) bool {
		return !f.Accepts(name)
	}
}

// Any accepts a name accepted by at least one of the filters
func Any(filters ...Filter) Filter {
	return func(name string) bool {
		for _, f := range filters {
			if f.Accepts(name) {
				return true
			}
		}
		return false
	}
}
