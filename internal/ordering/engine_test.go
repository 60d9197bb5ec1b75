package ordering

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(ids ...string) []Item {
	out := make([]Item, len(ids))
	for i, id := range ids {
		out[i] = Item{ID: id}
	}
	return out
}

func assertPartition(t *testing.T, e *Engine, all []string) {
	t.Helper()
	seen := map[string]int{}
	for _, id := range e.PoolIDs() {
		seen[id]++
	}
	for _, id := range e.PlacementIDs() {
		seen[id]++
	}
	require.Len(t, seen, len(all), "union must cover every item")
	for _, id := range all {
		require.Equal(t, 1, seen[id], "id %q must appear exactly once", id)
	}
}

func TestNew_SplitsInitialPlacement(t *testing.T) {
	e := New(items("a", "b", "c", "d"), WithInitialPlacement([]string{"c", "zz", "a", "c"}))

	assert.Equal(t, []string{"c", "a"}, e.PlacementIDs())
	assert.Equal(t, []string{"b", "d"}, e.PoolIDs())
	assert.False(t, e.Complete())
}

func TestNew_DropsDuplicateItems(t *testing.T) {
	e := New(items("a", "b", "a"))
	assert.Equal(t, 2, e.Len())
	assert.Equal(t, []string{"a", "b"}, e.PoolIDs())
}

func TestMoveToPlacement(t *testing.T) {
	var got [][]string
	e := New(items("a", "b", "c"), WithOnOrderChange(func(ids []string) { got = append(got, ids) }))

	require.True(t, e.AppendToPlacement("b"))
	require.True(t, e.MoveToPlacement("a", 0))
	require.True(t, e.MoveToPlacement("c", 99))
	assert.Equal(t, []string{"a", "b", "c"}, e.PlacementIDs())
	assert.Empty(t, e.PoolIDs())
	assert.True(t, e.Complete())
	assert.Equal(t, [][]string{{"b"}, {"a", "b"}, {"a", "b", "c"}}, got)

	assert.False(t, e.MoveToPlacement("missing", 0))
	assert.Len(t, got, 3, "no-op must not emit")
}

func TestMoveToPlacement_AlreadyPlacedIsReorder(t *testing.T) {
	e := New(items("a", "b", "c"), WithInitialPlacement([]string{"a", "b", "c"}))

	require.True(t, e.MoveToPlacement("c", 0))
	assert.Equal(t, []string{"c", "a", "b"}, e.PlacementIDs())
	assertPartition(t, e, []string{"a", "b", "c"})
}

func TestReorderWithinPlacement_IndexAgainstShortenedList(t *testing.T) {
	e := New(items("a", "b", "c", "d"), WithInitialPlacement([]string{"a", "b", "c", "d"}))

	// remove a -> [b c d]; insert before index 2 -> [b c a d]
	require.True(t, e.ReorderWithinPlacement("a", 2))
	assert.Equal(t, []string{"b", "c", "a", "d"}, e.PlacementIDs())

	require.True(t, e.ReorderWithinPlacement("d", 0))
	assert.Equal(t, []string{"d", "b", "c", "a"}, e.PlacementIDs())

	assert.False(t, e.ReorderWithinPlacement("zz", 0))
}

func TestReorderWithinPlacement_OwnIndexUnchanged(t *testing.T) {
	calls := 0
	e := New(items("a", "b", "c"),
		WithInitialPlacement([]string{"a", "b", "c"}),
		WithOnOrderChange(func([]string) { calls++ }))

	for i, id := range []string{"a", "b", "c"} {
		assert.False(t, e.ReorderWithinPlacement(id, i))
		assert.Equal(t, []string{"a", "b", "c"}, e.PlacementIDs())
	}
	assert.Zero(t, calls)
}

func TestMoveToPool(t *testing.T) {
	e := New(items("a", "b", "c"), WithInitialPlacement([]string{"b", "a"}))

	require.True(t, e.RemoveFromPlacement("b"))
	assert.Equal(t, []string{"a"}, e.PlacementIDs())
	assert.Equal(t, []string{"c", "b"}, e.PoolIDs())
	assert.False(t, e.MoveToPool("b"))
}

func TestDisabled_NoOperationMutates(t *testing.T) {
	e := New(items("a", "b", "c"), WithInitialPlacement([]string{"b"}))
	e.SetDisabled(true)

	pool, placed := e.PoolIDs(), e.PlacementIDs()
	assert.False(t, e.MoveToPlacement("a", 0))
	assert.False(t, e.AppendToPlacement("c"))
	assert.False(t, e.MoveToPool("b"))
	assert.False(t, e.ReorderWithinPlacement("b", 0))
	assert.False(t, e.Reset())
	assert.Equal(t, pool, e.PoolIDs())
	assert.Equal(t, placed, e.PlacementIDs())
}

func TestReset_RestoresOrigin(t *testing.T) {
	e := New(items("a", "b", "c", "d"), WithInitialPlacement([]string{"d"}))
	e.AppendToPlacement("b")
	e.MoveToPlacement("a", 0)
	e.ReorderWithinPlacement("d", 0)
	e.MoveToPool("b")

	require.True(t, e.Reset())
	assert.Equal(t, []string{"a", "b", "c", "d"}, e.PoolIDs())
	assert.Empty(t, e.PlacementIDs())
}

func TestAccessorsReturnCopies(t *testing.T) {
	e := New(items("a", "b"), WithInitialPlacement([]string{"a"}))
	p := e.Placement()
	p[0].ID = "mutated"
	assert.Equal(t, []string{"a"}, e.PlacementIDs())
}

func TestPartitionInvariant_RandomOperations(t *testing.T) {
	all := []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8"}
	rng := rand.New(rand.NewSource(42))
	pick := append(all, "stale-1", "stale-2")

	for run := 0; run < 50; run++ {
		e := New(items(all...))
		for step := 0; step < 200; step++ {
			id := pick[rng.Intn(len(pick))]
			idx := rng.Intn(12) - 2
			switch rng.Intn(6) {
			case 0:
				e.MoveToPlacement(id, idx)
			case 1:
				e.AppendToPlacement(id)
			case 2:
				e.MoveToPool(id)
			case 3:
				e.ReorderWithinPlacement(id, idx)
			case 4:
				if rng.Intn(20) == 0 {
					e.Reset()
				}
			case 5:
				e.SetDisabled(rng.Intn(4) == 0)
			}
			assertPartition(t, e, all)
		}
	}
}

func TestPartitionInvariant_OriginalOrderInPoolAfterReset(t *testing.T) {
	all := []string{"x", "y", "z"}
	e := New(items(all...))
	e.AppendToPlacement("z")
	e.AppendToPlacement("x")
	e.Reset()
	got := e.PoolIDs()
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i] < got[j] }))
}
