package bst

import (
	"errors"
	"fmt"
)

// Validation failure kinds. A [*ValidationError] wraps exactly one of them.
var (
	ErrOrderViolation      = errors.New("binary search tree ordering violated")
	ErrBrokenParentPointer = errors.New("child does not point back to its parent")
	ErrRootHasParent       = errors.New("root node has a parent")
)

// ValidationError reports the first structural violation found in a subtree.
type ValidationError struct {
	// Kind is one of ErrOrderViolation, ErrBrokenParentPointer, ErrRootHasParent.
	Kind error
	// Key identifies the offending node: the ancestor for ordering violations,
	// the parent for pointer violations. Nil when that node is empty.
	Key any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v (key %v)", e.Kind, e.Key)
}

// Unwrap exposes Kind to errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func (n Node[K, V]) violation(kind error) *ValidationError {
	key, ok := n.Key()
	if !ok {
		return &ValidationError{Kind: kind}
	}

	return &ValidationError{Kind: kind, Key: key}
}

// CheckAllNodesFulfillCondition runs test on every key of the subtree in
// pre-order (self, left, right) and returns the first error. The walk does not
// descend past an empty node.
func (n Node[K, V]) CheckAllNodesFulfillCondition(test func(key K) error) error {
	return n.preorder(func(cur Node[K, V]) (bool, error) {
		key, ok := cur.Key()
		if !ok {
			return false, nil
		}

		return true, test(key)
	})
}

// CheckNodeOrdering verifies that every left descendant of every node has a
// strictly smaller key and every right descendant a strictly larger one.
func (n Node[K, V]) CheckNodeOrdering() error {
	return n.preorder(func(cur Node[K, V]) (bool, error) {
		key, ok := cur.Key()
		if !ok {
			return false, nil
		}

		if cur.HasLeft() {
			err := cur.Left().CheckAllNodesFulfillCondition(func(k K) error {
				if cur.compare(k, key) >= 0 {
					return cur.violation(ErrOrderViolation)
				}

				return nil
			})
			if err != nil {
				return false, err
			}
		}

		if cur.HasRight() {
			err := cur.Right().CheckAllNodesFulfillCondition(func(k K) error {
				if cur.compare(k, key) <= 0 {
					return cur.violation(ErrOrderViolation)
				}

				return nil
			})
			if err != nil {
				return false, err
			}
		}

		return true, nil
	})
}

// CheckInternalPointers verifies that every linked child points back to the
// node it hangs from.
func (n Node[K, V]) CheckInternalPointers() error {
	return n.preorder(func(cur Node[K, V]) (bool, error) {
		self := cur.id

		if cur.HasLeft() && cur.arena.slot(cur.slot().left).parent != self {
			return false, cur.violation(ErrBrokenParentPointer)
		}

		if cur.HasRight() && cur.arena.slot(cur.slot().right).parent != self {
			return false, cur.violation(ErrBrokenParentPointer)
		}

		return true, nil
	})
}

// CheckIsNode validates the whole tree rooted at n: key ordering, parent
// pointers, and that n itself has no parent. Call it on a structural root only.
func (n Node[K, V]) CheckIsNode() error {
	err := n.CheckNodeOrdering()
	if err != nil {
		return err
	}

	err = n.CheckInternalPointers()
	if err != nil {
		return err
	}

	if n.slot().parent != NoNode {
		return n.violation(ErrRootHasParent)
	}

	return nil
}

// NumberOfKeys counts the keys of the subtree. An empty node counts 0.
func (n Node[K, V]) NumberOfKeys() int {
	count := 0

	_ = n.preorder(func(cur Node[K, V]) (bool, error) {
		if cur.IsEmpty() {
			return false, nil
		}

		count++

		return true, nil
	})

	return count
}

// preorder walks the subtree with an explicit stack: self, then the left
// subtree, then the right one. visit returns whether to descend into the
// children of the visited node; a non-nil error stops the walk.
func (n Node[K, V]) preorder(visit func(Node[K, V]) (bool, error)) error {
	if n.IsNil() {
		return nil
	}

	stack := []NodeID{n.id}

	for len(stack) > 0 {
		last := len(stack) - 1
		cur := Node[K, V]{arena: n.arena, id: stack[last]}
		stack = stack[:last]

		descend, err := visit(cur)
		if err != nil {
			return err
		}

		if !descend {
			continue
		}

		s := cur.slot()

		if s.right != NoNode {
			stack = append(stack, s.right)
		}

		if s.left != NoNode {
			stack = append(stack, s.left)
		}
	}

	return nil
}
