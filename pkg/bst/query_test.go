package bst_test

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bstindex/pkg/bst"
)

const (
	randomTreeSize   = 200
	randomKeySpace   = 300
	randomQueryCount = 500
	degenerateSize   = 5_000
)

var sampleKeys = []int{5, 3, 8, 1, 4}

func TestQuery_OpenRange(t *testing.T) {
	t.Parallel()

	root := buildTree(sampleKeys...)

	got := root.Query(bst.Constraints[int]{}.GT(3).LT(8))
	assert.Equal(t, []int{4, 5}, got)
}

func TestQuery_InclusiveWithNotEqual(t *testing.T) {
	t.Parallel()

	root := buildTree(sampleKeys...)

	got := root.Query(bst.Constraints[int]{}.GTE(3).NE(3))
	assert.Equal(t, []int{4, 5, 8}, got)
}

func TestQuery_NoConstraintsReturnsEverything(t *testing.T) {
	t.Parallel()

	root := buildTree(sampleKeys...)

	assert.Equal(t, []int{1, 3, 4, 5, 8}, root.Query(bst.Constraints[int]{}))
}

func TestQuery_EmptyTree(t *testing.T) {
	t.Parallel()

	root := buildTree()

	got := root.Query(bst.Constraints[int]{}.GT(0))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuery_DuplicateValuesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	root := buildTree(sampleKeys...)
	insert(root, 4, 40)
	insert(root, 4, 41)

	got := root.Query(bst.Constraints[int]{}.GTE(4).LTE(4))
	assert.Equal(t, []int{4, 40, 41}, got)
}

func TestQuery_RedundantBoundsMatchTighterBound(t *testing.T) {
	t.Parallel()

	root := buildTree(10, 5, 15, 3, 7, 12, 20, 1, 4, 6, 8)

	tests := []struct {
		name      string
		redundant bst.Constraints[int]
		tight     bst.Constraints[int]
	}{
		{"equal_lower", bst.Constraints[int]{}.GT(3).GTE(3), bst.Constraints[int]{}.GT(3)},
		{"inclusive_lower_wins", bst.Constraints[int]{}.GT(3).GTE(5), bst.Constraints[int]{}.GTE(5)},
		{"exclusive_lower_wins", bst.Constraints[int]{}.GT(7).GTE(5), bst.Constraints[int]{}.GT(7)},
		{"equal_upper", bst.Constraints[int]{}.LT(12).LTE(12), bst.Constraints[int]{}.LT(12)},
		{"inclusive_upper_wins", bst.Constraints[int]{}.LT(12).LTE(8), bst.Constraints[int]{}.LTE(8)},
		{"exclusive_upper_wins", bst.Constraints[int]{}.LT(6).LTE(8), bst.Constraints[int]{}.LT(6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, root.Query(tt.tight), root.Query(tt.redundant))
		})
	}
}

func TestQuery_MatchesLinearScan(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	keys := lo.Uniq(lo.Times(randomTreeSize, func(_ int) int { return rng.Intn(randomKeySpace) }))
	root := buildTree(keys...)
	sorted := root.Query(bst.Constraints[int]{})

	for range randomQueryCount {
		c := randomConstraints(rng)

		want := lo.Filter(sorted, func(k, _ int) bool { return satisfies(k, c) })

		require.Equal(t, want, root.Query(c), "constraints %s", describe(c))
	}
}

func TestQueryRange_VisitsLeftOnlyWhenLowerBoundMatches(t *testing.T) {
	t.Parallel()

	root := buildTree(5, 3, 8)

	// Misplace 9 on the left of 5 so the walk becomes observable.
	misplaced := findNode(root, 3)
	misplaced.SetKey(9)
	misplaced.SetValues([]int{9})

	byValue := func(a, b int) int { return a - b }

	// 5 fails $gt 5: its left subtree is skipped.
	assert.Equal(t, []int{8}, root.QueryRange(bst.Constraints[int]{}.GT(5).Resolve(byValue)))

	// 5 passes $gt 4: its left subtree is entered and 9 is reported first.
	assert.Equal(t, []int{9, 5, 8}, root.QueryRange(bst.Constraints[int]{}.GT(4).Resolve(byValue)))
}

func TestSearch(t *testing.T) {
	t.Parallel()

	root := buildTree(sampleKeys...)

	assert.Equal(t, []int{8}, root.Search(8))
	assert.Equal(t, []int{1}, root.Search(1))
	assert.Equal(t, []int{}, root.Search(99))
	assert.Equal(t, []int{}, root.Search(2))
}

func TestSearch_EmptyTree(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{}, buildTree().Search(1))
}

func TestSearch_ReturnsCopy(t *testing.T) {
	t.Parallel()

	root := buildTree(sampleKeys...)

	got := root.Search(5)
	got[0] = 500

	assert.Equal(t, []int{5}, root.Search(5))
}

func TestSearch_EveryInsertedKey(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	keys := lo.Uniq(lo.Times(randomTreeSize, func(_ int) int { return rng.Intn(randomKeySpace) }))
	root := buildTree(keys...)

	for _, key := range keys {
		assert.Equal(t, []int{key}, root.Search(key))
	}
}

func TestExecuteOnEveryNode_AscendingOnce(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	keys := lo.Uniq(lo.Times(randomTreeSize, func(_ int) int { return rng.Intn(randomKeySpace) }))
	root := buildTree(keys...)

	var visited []int

	root.ExecuteOnEveryNode(func(n bst.Node[int, int]) {
		key, ok := n.Key()
		require.True(t, ok)

		visited = append(visited, key)
	})

	require.Len(t, visited, len(keys))

	for i := 1; i < len(visited); i++ {
		assert.Less(t, visited[i-1], visited[i])
	}
}

func TestDegenerateTree_RightSpine(t *testing.T) {
	t.Parallel()

	arena := bst.NewArena(bst.OrderedStrategy[int, int]())
	root := arena.NewNode(bst.NodeConfig[int, int]{Key: 0, HasKey: true, Values: []int{0}})
	tail := root

	// Sorted insertion degenerates into a right spine.
	for key := 1; key < degenerateSize; key++ {
		child := arena.NewNode(bst.NodeConfig[int, int]{Parent: tail.ID(), Key: key, HasKey: true, Values: []int{key}})
		tail.SetRight(child)
		tail = child
	}

	require.NoError(t, root.CheckIsNode())
	assert.Equal(t, degenerateSize, root.NumberOfKeys())
	assert.Equal(t, []int{degenerateSize - 1}, root.Search(degenerateSize-1))
	assert.Len(t, root.Query(bst.Constraints[int]{}.GTE(degenerateSize-10)), 10)
}

func randomConstraints(rng *rand.Rand) bst.Constraints[int] {
	var c bst.Constraints[int]

	pick := func() int { return rng.Intn(randomKeySpace+20) - 10 }

	if rng.Intn(2) == 0 {
		c = c.GT(pick())
	}

	if rng.Intn(2) == 0 {
		c = c.GTE(pick())
	}

	if rng.Intn(2) == 0 {
		c = c.LT(pick())
	}

	if rng.Intn(2) == 0 {
		c = c.LTE(pick())
	}

	if rng.Intn(3) == 0 {
		c = c.NE(pick())
	}

	return c
}

func satisfies(key int, c bst.Constraints[int]) bool {
	switch {
	case c.Gt != nil && key <= *c.Gt,
		c.Gte != nil && key < *c.Gte,
		c.Lt != nil && key >= *c.Lt,
		c.Lte != nil && key > *c.Lte,
		c.Ne != nil && key == *c.Ne:
		return false
	default:
		return true
	}
}

func describe(c bst.Constraints[int]) string {
	parts := []string{}

	for _, p := range []struct {
		op  string
		key *int
	}{{"$gt", c.Gt}, {"$gte", c.Gte}, {"$lt", c.Lt}, {"$lte", c.Lte}, {"$ne", c.Ne}} {
		if p.key != nil {
			parts = append(parts, p.op+"="+strconv.Itoa(*p.key))
		}
	}

	return strings.Join(parts, " ")
}
