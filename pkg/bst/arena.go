// Package bst provides the node layer of an in-memory ordered index: a binary
// search tree node holding a unique key mapped to a multiset of values, with
// exact search, bound-constrained range queries, in-order traversal and
// structural validation.
//
// Nodes live in an [Arena] and refer to each other by [NodeID]. The arena owns
// every node; parent links are plain indices, so there are no ownership cycles.
// Insertion, deletion and rebalancing are left to the owning index, which uses
// the link setters on [Node] to reshape the tree.
package bst

import (
	"math"
)

// NodeID is a stable handle of a node inside its arena.
type NodeID uint32

// NoNode is the reserved handle meaning "absent".
const NoNode NodeID = 0

// maxNodeID is the last handle an arena may hand out.
const maxNodeID = math.MaxUint32 - 1

// NodeConfig is the construction contract for a node. The zero value builds an
// empty node (no key, no values, no parent).
type NodeConfig[K, V any] struct {
	Values []V
	Key    K
	Parent NodeID
	HasKey bool
	Unique bool
}

type node[K, V any] struct {
	key                 K
	values              []V
	parent, left, right NodeID
	hasKey              bool
	unique              bool
	live                bool
}

// Arena allocates and owns the nodes of one tree. All nodes of an arena share
// the same [Strategy].
type Arena[K, V any] struct {
	strategy Strategy[K, V]
	storage  []node[K, V]
	gaps     []NodeID
}

// NewArena creates an arena whose nodes compare keys and values with strategy.
// Unset strategy functions fall back to [DefaultCompare] and [DefaultEqual].
func NewArena[K, V any](strategy Strategy[K, V]) *Arena[K, V] {
	return &Arena[K, V]{
		strategy: strategy.withDefaults(),
		// Zero is reserved.
		storage: make([]node[K, V], 1),
	}
}

// Strategy returns the comparator and equality functions bound to the arena.
func (arena *Arena[K, V]) Strategy() Strategy[K, V] {
	return arena.strategy
}

// Size returns the number of allocated slots, including freed ones.
func (arena *Arena[K, V]) Size() int {
	return len(arena.storage) - 1
}

// Used returns the number of live nodes.
func (arena *Arena[K, V]) Used() int {
	return arena.Size() - len(arena.gaps)
}

// NewNode allocates a node from cfg and returns its handle.
func (arena *Arena[K, V]) NewNode(cfg NodeConfig[K, V]) Node[K, V] {
	id := arena.malloc()

	arena.storage[id] = node[K, V]{
		key:    cfg.Key,
		values: cfg.Values,
		parent: cfg.Parent,
		hasKey: cfg.HasKey,
		unique: cfg.Unique,
		live:   true,
	}

	return Node[K, V]{arena: arena, id: id}
}

// Node returns the handle for id. The handle of [NoNode] or of a freed slot is nil.
func (arena *Arena[K, V]) Node(id NodeID) Node[K, V] {
	if id == NoNode || int(id) >= len(arena.storage) || !arena.storage[id].live {
		return Node[K, V]{arena: arena, id: NoNode}
	}

	return Node[K, V]{arena: arena, id: id}
}

// Free releases the slot of n. The caller must have unlinked n from the tree.
func (arena *Arena[K, V]) Free(n Node[K, V]) {
	if n.IsNil() {
		return
	}

	if n.arena != arena {
		panic("bst: freeing a node that belongs to another arena")
	}

	arena.storage[n.id] = node[K, V]{}
	arena.gaps = append(arena.gaps, n.id)
}

// Reset frees every node at once.
func (arena *Arena[K, V]) Reset() {
	clear(arena.storage[1:])
	arena.storage = arena.storage[:1]
	arena.gaps = arena.gaps[:0]
}

func (arena *Arena[K, V]) malloc() NodeID {
	if last := len(arena.gaps) - 1; last >= 0 {
		id := arena.gaps[last]
		arena.gaps = arena.gaps[:last]

		return id
	}

	if len(arena.storage) > maxNodeID {
		panic("bst: arena exhausted the NodeID space")
	}

	arena.storage = append(arena.storage, node[K, V]{})

	return NodeID(len(arena.storage) - 1)
}

func (arena *Arena[K, V]) slot(id NodeID) *node[K, V] {
	return &arena.storage[id]
}
