package bst

// Constraints is the raw range query: any combination of the five optional
// bounds. The zero value matches every key.
type Constraints[K any] struct {
	Gt, Gte *K
	Lt, Lte *K
	Ne      *K
}

// GT returns a copy of c with an exclusive lower bound.
func (c Constraints[K]) GT(key K) Constraints[K] {
	c.Gt = &key

	return c
}

// GTE returns a copy of c with an inclusive lower bound.
func (c Constraints[K]) GTE(key K) Constraints[K] {
	c.Gte = &key

	return c
}

// LT returns a copy of c with an exclusive upper bound.
func (c Constraints[K]) LT(key K) Constraints[K] {
	c.Lt = &key

	return c
}

// LTE returns a copy of c with an inclusive upper bound.
func (c Constraints[K]) LTE(key K) Constraints[K] {
	c.Lte = &key

	return c
}

// NE returns a copy of c excluding key.
func (c Constraints[K]) NE(key K) Constraints[K] {
	c.Ne = &key

	return c
}

// Bound is one side of a range.
type Bound[K any] struct {
	Key       K
	Inclusive bool
}

// Range is a resolved query: at most one bound per side plus an optional
// excluded key. Nil fields do not constrain.
type Range[K any] struct {
	Lower    *Bound[K]
	Upper    *Bound[K]
	NotEqual *K
}

// Resolve collapses redundant bounds into the tighter one per side. When an
// exclusive and an inclusive bound name the same key the exclusive one wins.
func (c Constraints[K]) Resolve(compare Comparator[K]) Range[K] {
	return Range[K]{
		Lower:    tighterBound(c.Gt, c.Gte, compare, 1),
		Upper:    tighterBound(c.Lt, c.Lte, compare, -1),
		NotEqual: c.Ne,
	}
}

// tighterBound picks between an exclusive and an inclusive bound of one side.
// direction is 1 for lower bounds (larger is tighter) and -1 for upper ones.
func tighterBound[K any](exclusive, inclusive *K, compare Comparator[K], direction int) *Bound[K] {
	switch {
	case exclusive == nil && inclusive == nil:
		return nil
	case inclusive == nil:
		return &Bound[K]{Key: *exclusive}
	case exclusive == nil:
		return &Bound[K]{Key: *inclusive, Inclusive: true}
	}

	if compare(*inclusive, *exclusive)*direction > 0 {
		return &Bound[K]{Key: *inclusive, Inclusive: true}
	}

	return &Bound[K]{Key: *exclusive}
}

// MatchesLowerBound reports whether the node key satisfies r's lower bound.
func (n Node[K, V]) MatchesLowerBound(r Range[K]) bool {
	if r.Lower == nil {
		return true
	}

	key, _ := n.Key()
	c := n.compare(key, r.Lower.Key)

	return c > 0 || (c == 0 && r.Lower.Inclusive)
}

// MatchesUpperBound reports whether the node key satisfies r's upper bound.
func (n Node[K, V]) MatchesUpperBound(r Range[K]) bool {
	if r.Upper == nil {
		return true
	}

	key, _ := n.Key()
	c := n.compare(key, r.Upper.Key)

	return c < 0 || (c == 0 && r.Upper.Inclusive)
}

// MatchesEqualityBound reports whether the node key differs from r's excluded
// key under the key equality predicate.
func (n Node[K, V]) MatchesEqualityBound(r Range[K]) bool {
	if r.NotEqual == nil {
		return true
	}

	key, _ := n.Key()

	return !n.keyEqual(key, *r.NotEqual)
}

// LowerBoundMatcher evaluates the $gt/$gte side of c against the node key.
func (n Node[K, V]) LowerBoundMatcher(c Constraints[K]) bool {
	return n.MatchesLowerBound(Range[K]{Lower: tighterBound(c.Gt, c.Gte, n.compare, 1)})
}

// UpperBoundMatcher evaluates the $lt/$lte side of c against the node key.
func (n Node[K, V]) UpperBoundMatcher(c Constraints[K]) bool {
	return n.MatchesUpperBound(Range[K]{Upper: tighterBound(c.Lt, c.Lte, n.compare, -1)})
}

// EqualityBound evaluates the $ne constraint of c against the node key.
func (n Node[K, V]) EqualityBound(c Constraints[K]) bool {
	return n.MatchesEqualityBound(Range[K]{NotEqual: c.Ne})
}
