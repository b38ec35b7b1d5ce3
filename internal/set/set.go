package set

import (
	"golang.org/x/exp/constraints"

	"github.com/kyleranous/docker-mocker/internal/generic"
)

type Set[T comparable] map[T]struct{}

func New[T comparable](vals ...T) Set[T] {
	set := make(Set[T], len(vals))
	for _, val := range vals {
		set.Add(val)
	}

	return set
}

func (s Set[T]) Add(val T) {
	s[val] = struct{}{}
}

func (s Set[T]) Has(val T) bool {
	_, ok := s[val]
	return ok
}

// Sorted returns the values of s in ascending order.
func Sorted[T constraints.Ordered](s Set[T]) []T {
	return generic.SortedKeys(s)
}
