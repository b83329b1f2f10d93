package index

import (
	"context"
	"fmt"

	"github.com/Sumatoshi-tech/bstindex/pkg/bst"
)

// Search returns the values stored under key, empty when absent.
func (idx *Index[K, V]) Search(ctx context.Context, key K) []V {
	ctx, done := idx.observe(ctx, OpSearch)

	idx.mu.RLock()
	res := idx.root.Search(key)
	idx.mu.RUnlock()

	idx.metrics.RecordResults(ctx, OpSearch, len(res))
	done(nil)

	return res
}

// Query returns the values of every key satisfying c, in ascending key order.
func (idx *Index[K, V]) Query(ctx context.Context, c bst.Constraints[K]) []V {
	ctx, done := idx.observe(ctx, OpQuery)

	idx.mu.RLock()
	res := idx.root.Query(c)
	idx.mu.RUnlock()

	idx.metrics.RecordResults(ctx, OpQuery, len(res))
	done(nil)

	return res
}

// Validate checks the structural invariants of the whole tree.
func (idx *Index[K, V]) Validate(ctx context.Context) error {
	ctx, done := idx.observe(ctx, OpValidate)

	idx.mu.RLock()
	err := idx.root.CheckIsNode()
	idx.mu.RUnlock()

	if err != nil {
		err = fmt.Errorf("index is corrupt: %w", err)
		idx.logger.ErrorContext(ctx, "index validation failed", "error", err)
	}

	done(err)

	return err
}

// Count returns the number of distinct keys.
func (idx *Index[K, V]) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.root.NumberOfKeys()
}

// Nodes returns the number of live nodes in the arena, including the empty
// root of an empty index.
func (idx *Index[K, V]) Nodes() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.arena.Used()
}

// Min returns the smallest key. The boolean is false on an empty index.
func (idx *Index[K, V]) Min() (K, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.root.MinKey()
}

// Max returns the largest key. The boolean is false on an empty index.
func (idx *Index[K, V]) Max() (K, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.root.MaxKey()
}

// Walk calls fn for every key in ascending order. fn must not modify the index.
func (idx *Index[K, V]) Walk(fn func(key K, values []V)) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	idx.root.ExecuteOnEveryNode(func(n bst.Node[K, V]) {
		key, ok := n.Key()
		if !ok {
			return
		}

		fn(key, n.Values())
	})
}

// Keys returns every key in ascending order.
func (idx *Index[K, V]) Keys() []K {
	keys := []K{}

	idx.Walk(func(key K, _ []V) {
		keys = append(keys, key)
	})

	return keys
}

// Height returns the number of nodes on the longest root-to-leaf path, 0 for
// an empty index.
func (idx *Index[K, V]) Height() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.root.IsEmpty() {
		return 0
	}

	type frame struct {
		n     bst.Node[K, V]
		depth int
	}

	height := 0
	stack := []frame{{n: idx.root, depth: 1}}

	for len(stack) > 0 {
		last := len(stack) - 1
		cur := stack[last]
		stack = stack[:last]

		height = max(height, cur.depth)

		if cur.n.HasLeft() {
			stack = append(stack, frame{n: cur.n.Left(), depth: cur.depth + 1})
		}

		if cur.n.HasRight() {
			stack = append(stack, frame{n: cur.n.Right(), depth: cur.depth + 1})
		}
	}

	return height
}

// Root exposes the root node for read-only inspection. The caller must not
// reshape the tree and must not use the handle concurrently with mutations.
func (idx *Index[K, V]) Root() bst.Node[K, V] {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.root
}
