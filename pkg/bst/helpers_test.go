package bst_test

import (
	"github.com/Sumatoshi-tech/bstindex/pkg/bst"
)

// buildTree inserts keys in order into a plain BST, storing each key as its
// own value, and returns the root.
func buildTree(keys ...int) bst.Node[int, int] {
	arena := bst.NewArena(bst.OrderedStrategy[int, int]())
	root := arena.NewNode(bst.NodeConfig[int, int]{})

	for _, key := range keys {
		insert(root, key, key)
	}

	return root
}

func insert(root bst.Node[int, int], key, value int) {
	if root.IsEmpty() {
		root.SetKey(key)
		root.AppendValue(value)

		return
	}

	cursor := root

	for {
		cursorKey, _ := cursor.Key()

		switch {
		case key == cursorKey:
			cursor.AppendValue(value)

			return
		case key < cursorKey:
			if !cursor.HasLeft() {
				cursor.SetLeft(newChild(cursor, key, value))

				return
			}

			cursor = cursor.Left()
		default:
			if !cursor.HasRight() {
				cursor.SetRight(newChild(cursor, key, value))

				return
			}

			cursor = cursor.Right()
		}
	}
}

func newChild(parent bst.Node[int, int], key, value int) bst.Node[int, int] {
	return parent.Arena().NewNode(bst.NodeConfig[int, int]{
		Parent: parent.ID(),
		Key:    key,
		HasKey: true,
		Values: []int{value},
	})
}

// findNode locates the node holding key, nil handle when absent.
func findNode(root bst.Node[int, int], key int) bst.Node[int, int] {
	var found bst.Node[int, int]

	root.ExecuteOnEveryNode(func(n bst.Node[int, int]) {
		if k, ok := n.Key(); ok && k == key {
			found = n
		}
	})

	return found
}
