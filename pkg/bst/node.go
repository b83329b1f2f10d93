package bst

// Node is a handle to one entry of an [Arena]. The zero Node and handles of
// absent children are nil; calling accessors other than IsNil on them panics.
type Node[K, V any] struct {
	arena *Arena[K, V]
	id    NodeID
}

// ID returns the arena handle of the node.
func (n Node[K, V]) ID() NodeID {
	return n.id
}

// IsNil reports whether the handle refers to no node.
func (n Node[K, V]) IsNil() bool {
	return n.arena == nil || n.id == NoNode
}

// Equal reports whether both handles refer to the same node.
func (n Node[K, V]) Equal(other Node[K, V]) bool {
	return n.arena == other.arena && n.id == other.id
}

// Arena returns the arena owning the node.
func (n Node[K, V]) Arena() *Arena[K, V] {
	return n.arena
}

// Key returns the node key. The boolean is false for an empty node.
func (n Node[K, V]) Key() (K, bool) {
	s := n.slot()

	return s.key, s.hasKey
}

// IsEmpty reports whether the node holds no entry.
func (n Node[K, V]) IsEmpty() bool {
	return !n.slot().hasKey
}

// Values returns the values stored under the node key, in insertion order.
func (n Node[K, V]) Values() []V {
	return n.slot().values
}

// Unique reports the uniqueness flag the node was created with.
func (n Node[K, V]) Unique() bool {
	return n.slot().unique
}

// Left returns the left child, nil when absent.
func (n Node[K, V]) Left() Node[K, V] {
	return n.arena.Node(n.slot().left)
}

// Right returns the right child, nil when absent.
func (n Node[K, V]) Right() Node[K, V] {
	return n.arena.Node(n.slot().right)
}

// Parent returns the structural parent, nil for a root.
func (n Node[K, V]) Parent() Node[K, V] {
	return n.arena.Node(n.slot().parent)
}

// HasLeft reports whether a left child is linked.
func (n Node[K, V]) HasLeft() bool {
	return n.slot().left != NoNode
}

// HasRight reports whether a right child is linked.
func (n Node[K, V]) HasRight() bool {
	return n.slot().right != NoNode
}

// Link setters. Only the owning index reshapes the tree; the query,
// search, traversal and validation methods never call these.

// SetLeft links child as the left child. It does not touch child's parent link.
func (n Node[K, V]) SetLeft(child Node[K, V]) {
	n.slot().left = child.id
}

// SetRight links child as the right child. It does not touch child's parent link.
func (n Node[K, V]) SetRight(child Node[K, V]) {
	n.slot().right = child.id
}

// SetParent sets the parent back-reference. A nil parent makes n a root.
func (n Node[K, V]) SetParent(parent Node[K, V]) {
	n.slot().parent = parent.id
}

// SetKey stores key, turning an empty node into a regular one.
func (n Node[K, V]) SetKey(key K) {
	s := n.slot()
	s.key = key
	s.hasKey = true
}

// ClearKey turns n into an empty node and drops its values.
func (n Node[K, V]) ClearKey() {
	var zero K

	s := n.slot()
	s.key = zero
	s.hasKey = false
	s.values = nil
}

// SetValues replaces the stored values.
func (n Node[K, V]) SetValues(values []V) {
	n.slot().values = values
}

// AppendValue adds value after the already stored ones.
func (n Node[K, V]) AppendValue(value V) {
	s := n.slot()
	s.values = append(s.values, value)
}

func (n Node[K, V]) slot() *node[K, V] {
	if n.IsNil() {
		panic("bst: use of a nil node handle")
	}

	return n.arena.slot(n.id)
}

func (n Node[K, V]) compare(a, b K) int {
	return n.arena.strategy.CompareKeys(a, b)
}

func (n Node[K, V]) keyEqual(a, b K) bool {
	return n.arena.strategy.KeyEqual(a, b)
}
