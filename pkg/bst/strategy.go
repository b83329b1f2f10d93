package bst

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// ErrIncomparableKeys is the panic value of [DefaultCompare] when the keys are
// not of a supported scalar type or are of different types.
var ErrIncomparableKeys = errors.New("keys cannot be compared")

// Comparator defines how to compare two keys.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b.
type Comparator[K any] func(a, b K) int

// Equality reports whether two keys or two values are the same entry.
type Equality[T any] func(a, b T) bool

// Strategy groups the key ordering and equality predicates of one tree.
// KeyEqual does not have to agree with CompareKeys(a, b) == 0 for composite keys.
type Strategy[K, V any] struct {
	CompareKeys Comparator[K]
	KeyEqual    Equality[K]
	ValueEqual  Equality[V]
}

func (s Strategy[K, V]) withDefaults() Strategy[K, V] {
	if s.CompareKeys == nil {
		s.CompareKeys = DefaultCompare[K]
	}

	if s.KeyEqual == nil {
		s.KeyEqual = DefaultEqual[K]
	}

	if s.ValueEqual == nil {
		s.ValueEqual = DefaultEqual[V]
	}

	return s
}

// OrderedStrategy returns a strategy for keys with a native Go ordering.
func OrderedStrategy[K cmp.Ordered, V any]() Strategy[K, V] {
	return Strategy[K, V]{
		CompareKeys: cmp.Compare[K],
		KeyEqual:    func(a, b K) bool { return a == b },
	}
}

// DefaultCompare is the three-way comparison used when no comparator is
// supplied. It orders numbers, strings, times and booleans (false < true) and
// panics with [ErrIncomparableKeys] for anything else.
//
//nolint:cyclop,gocyclo // one arm per supported kind
func DefaultCompare[K any](a, b K) int {
	switch left := any(a).(type) {
	case int:
		return compareAs(left, b)
	case int8:
		return compareAs(left, b)
	case int16:
		return compareAs(left, b)
	case int32:
		return compareAs(left, b)
	case int64:
		return compareAs(left, b)
	case uint:
		return compareAs(left, b)
	case uint8:
		return compareAs(left, b)
	case uint16:
		return compareAs(left, b)
	case uint32:
		return compareAs(left, b)
	case uint64:
		return compareAs(left, b)
	case float32:
		return compareAs(left, b)
	case float64:
		return compareAs(left, b)
	case string:
		return compareAs(left, b)
	case time.Time:
		right, ok := any(b).(time.Time)
		if !ok {
			panic(incomparable(a, b))
		}

		return left.Compare(right)
	case bool:
		right, ok := any(b).(bool)
		if !ok {
			panic(incomparable(a, b))
		}

		return compareBools(left, right)
	default:
		panic(incomparable(a, b))
	}
}

// DefaultEqual is the equality used when no predicate is supplied: == for
// comparable dynamic types, time.Time.Equal for times, deep equality otherwise.
func DefaultEqual[T any](a, b T) bool {
	left, right := any(a), any(b)

	if lt, ok := left.(time.Time); ok {
		rt, ok := right.(time.Time)

		return ok && lt.Equal(rt)
	}

	if left == nil || right == nil {
		return left == nil && right == nil
	}

	lt, rt := reflect.TypeOf(left), reflect.TypeOf(right)
	if lt != rt {
		return false
	}

	if lt.Comparable() {
		return left == right
	}

	return reflect.DeepEqual(left, right)
}

func compareAs[T cmp.Ordered, K any](left T, b K) int {
	right, ok := any(b).(T)
	if !ok {
		panic(incomparable(left, b))
	}

	return cmp.Compare(left, right)
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func incomparable(a, b any) error {
	return fmt.Errorf("%w: %T(%v) and %T(%v)", ErrIncomparableKeys, a, a, b, b)
}
