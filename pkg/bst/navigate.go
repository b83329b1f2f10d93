package bst

// MaxKeyDescendant follows right links from n and returns the last node.
func (n Node[K, V]) MaxKeyDescendant() Node[K, V] {
	cursor := n

	for cursor.HasRight() {
		cursor = cursor.Right()
	}

	return cursor
}

// MinKeyDescendant follows left links from n and returns the last node.
func (n Node[K, V]) MinKeyDescendant() Node[K, V] {
	cursor := n

	for cursor.HasLeft() {
		cursor = cursor.Left()
	}

	return cursor
}

// MaxKey returns the largest key of the subtree. On an empty node the boolean
// is false and the key must be treated as "no bound".
func (n Node[K, V]) MaxKey() (K, bool) {
	return n.MaxKeyDescendant().Key()
}

// MinKey returns the smallest key of the subtree. On an empty node the boolean
// is false and the key must be treated as "no bound".
func (n Node[K, V]) MinKey() (K, bool) {
	return n.MinKeyDescendant().Key()
}
