package bst

// Query returns the values of every key in the subtree that satisfies c, in
// ascending key order. Redundant bounds are resolved once, see [Constraints.Resolve].
func (n Node[K, V]) Query(c Constraints[K]) []V {
	if n.IsNil() {
		return []V{}
	}

	return n.QueryRange(c.Resolve(n.arena.strategy.CompareKeys))
}

// QueryRange returns the values of every key in the subtree inside r, in
// ascending key order.
//
// A node's left subtree is entered only when the node itself satisfies the
// lower bound, and its right subtree only when it satisfies the upper bound.
func (n Node[K, V]) QueryRange(r Range[K]) []V {
	res := []V{}

	if n.IsNil() || n.IsEmpty() {
		return res
	}

	var stack []NodeID

	cursor := n.id

	for cursor != NoNode || len(stack) > 0 {
		// Descend left while the lower bound keeps matching.
		for cursor != NoNode {
			stack = append(stack, cursor)

			cur := Node[K, V]{arena: n.arena, id: cursor}
			if !cur.MatchesLowerBound(r) {
				break
			}

			cursor = cur.slot().left
		}

		last := len(stack) - 1
		cur := Node[K, V]{arena: n.arena, id: stack[last]}
		stack = stack[:last]

		lower := cur.MatchesLowerBound(r)
		upper := cur.MatchesUpperBound(r)

		if lower && upper && cur.MatchesEqualityBound(r) {
			res = append(res, cur.slot().values...)
		}

		cursor = NoNode
		if upper {
			cursor = cur.slot().right
		}
	}

	return res
}

// Search returns the values stored under key, or an empty slice when the
// subtree does not hold it.
func (n Node[K, V]) Search(key K) []V {
	if n.IsNil() || n.IsEmpty() {
		return []V{}
	}

	cursor := n

	for {
		cursorKey, _ := cursor.Key()

		switch c := n.compare(key, cursorKey); {
		case c == 0:
			return append([]V{}, cursor.Values()...)
		case c < 0 && cursor.HasLeft():
			cursor = cursor.Left()
		case c > 0 && cursor.HasRight():
			cursor = cursor.Right()
		default:
			return []V{}
		}
	}
}

// ExecuteOnEveryNode calls visit on every node of the subtree in ascending
// key order (left subtree, node, right subtree).
func (n Node[K, V]) ExecuteOnEveryNode(visit func(Node[K, V])) {
	if n.IsNil() {
		return
	}

	var stack []NodeID

	cursor := n.id

	for cursor != NoNode || len(stack) > 0 {
		for cursor != NoNode {
			stack = append(stack, cursor)
			cursor = n.arena.slot(cursor).left
		}

		last := len(stack) - 1
		cur := Node[K, V]{arena: n.arena, id: stack[last]}
		stack = stack[:last]

		visit(cur)

		cursor = cur.slot().right
	}
}
