package bst //nolint:testpackage // tests inspect arena slots and the free list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_ReservesZero(t *testing.T) {
	t.Parallel()

	arena := NewArena(OrderedStrategy[int, string]())
	n := arena.NewNode(NodeConfig[int, string]{Key: 1, HasKey: true})

	assert.Equal(t, NodeID(1), n.ID())
	assert.Equal(t, 1, arena.Size())
	assert.Equal(t, 1, arena.Used())
	assert.True(t, arena.Node(NoNode).IsNil())
}

func TestArena_ZeroConfigIsEmptyNode(t *testing.T) {
	t.Parallel()

	arena := NewArena(OrderedStrategy[int, string]())
	n := arena.NewNode(NodeConfig[int, string]{})

	assert.True(t, n.IsEmpty())
	assert.False(t, n.HasLeft())
	assert.False(t, n.HasRight())
	assert.True(t, n.Parent().IsNil())
	assert.Empty(t, n.Values())
}

func TestArena_FreeReusesSlot(t *testing.T) {
	t.Parallel()

	arena := NewArena(OrderedStrategy[int, string]())
	first := arena.NewNode(NodeConfig[int, string]{Key: 1, HasKey: true})
	second := arena.NewNode(NodeConfig[int, string]{Key: 2, HasKey: true})

	arena.Free(first)
	assert.Equal(t, 1, arena.Used())
	assert.True(t, arena.Node(first.ID()).IsNil())
	assert.Equal(t, []NodeID{first.ID()}, arena.gaps)

	third := arena.NewNode(NodeConfig[int, string]{Key: 3, HasKey: true})
	assert.Equal(t, first.ID(), third.ID())
	assert.Equal(t, 2, arena.Size())

	key, ok := second.Key()
	require.True(t, ok)
	assert.Equal(t, 2, key)
}

func TestArena_FreeForeignNodePanics(t *testing.T) {
	t.Parallel()

	one := NewArena(OrderedStrategy[int, string]())
	other := NewArena(OrderedStrategy[int, string]())
	n := other.NewNode(NodeConfig[int, string]{})

	assert.Panics(t, func() { one.Free(n) })
}

func TestArena_Reset(t *testing.T) {
	t.Parallel()

	arena := NewArena(OrderedStrategy[int, string]())
	for key := range 5 {
		arena.NewNode(NodeConfig[int, string]{Key: key, HasKey: true})
	}

	arena.Reset()

	assert.Zero(t, arena.Size())
	assert.Zero(t, arena.Used())
	assert.Equal(t, NodeID(1), arena.NewNode(NodeConfig[int, string]{}).ID())
}

func TestArena_DefaultsFillMissingStrategy(t *testing.T) {
	t.Parallel()

	arena := NewArena(Strategy[string, int]{})

	assert.NotNil(t, arena.Strategy().CompareKeys)
	assert.NotNil(t, arena.Strategy().KeyEqual)
	assert.NotNil(t, arena.Strategy().ValueEqual)
	assert.Equal(t, -1, arena.Strategy().CompareKeys("a", "b"))
}

func TestNode_Setters(t *testing.T) {
	t.Parallel()

	arena := NewArena(OrderedStrategy[int, string]())
	parent := arena.NewNode(NodeConfig[int, string]{})
	child := arena.NewNode(NodeConfig[int, string]{Key: 1, HasKey: true, Values: []string{"a"}, Unique: true})

	parent.SetKey(5)
	parent.AppendValue("x")
	parent.AppendValue("y")
	parent.SetLeft(child)
	child.SetParent(parent)

	assert.False(t, parent.IsEmpty())
	assert.Equal(t, []string{"x", "y"}, parent.Values())
	assert.True(t, parent.Left().Equal(child))
	assert.True(t, child.Parent().Equal(parent))
	assert.True(t, child.Unique())
	assert.False(t, parent.Unique())

	parent.ClearKey()
	assert.True(t, parent.IsEmpty())
	assert.Nil(t, parent.Values())

	var zero Node[int, string]
	assert.True(t, zero.IsNil())
	assert.Panics(t, func() { zero.Key() })
}
