package collections

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Set is a container that can hold each item only once and has a fast lookup time.
//
// You can define a new set like this:
//
//	var validKeyLengths = golang.Set[int]{
//	    16: {},
//	    24: {},
//	    32: {},
//	}
type Set[T comparable] map[T]struct{}

// Has returns true if the item exists in the Set
func (s Set[T]) Has(value T) bool {
	_, ok := s[value]
	return ok
}

// String creates a comma-separated list of all values in the set.
func (s Set[T]) String() string {
	parts := make([]string, len(s))
	i := 0
	for v := range s {
		parts[i] = fmt.Sprintf("%v", v)
		i++
	}

	slices.SortStableFunc(parts, func(a, b string) int {
		if a < b {
			return -1
		} else if b > a {
			return 1
		} else {
			return 0
		}
	})
	return strings.Join(parts, ", ")
}

// OrderedSet is a Set that also remembers insertion order, used where a
// module's set of transitively loaded URLs must be deduplicated but
// still reported (e.g. in diagnostics or a debug dump) in the order
// they were first encountered.
type OrderedSet[T comparable] struct {
	members Set[T]
	order   []T
}

// NewOrderedSet constructs an empty OrderedSet.
func NewOrderedSet[T comparable]() *OrderedSet[T] {
	return &OrderedSet[T]{members: Set[T]{}}
}

// Add inserts value if not already present, reporting whether it was
// newly added.
func (s *OrderedSet[T]) Add(value T) bool {
	if s.members.Has(value) {
		return false
	}
	s.members[value] = struct{}{}
	s.order = append(s.order, value)
	return true
}

// Has reports whether value is a member.
func (s *OrderedSet[T]) Has(value T) bool {
	return s.members.Has(value)
}

// Slice returns the members in insertion order. The returned slice must
// not be mutated by the caller.
func (s *OrderedSet[T]) Slice() []T {
	return s.order
}

// Len returns the number of members.
func (s *OrderedSet[T]) Len() int {
	return len(s.order)
}
