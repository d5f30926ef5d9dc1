// pkg/hierarchy/aggregate_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test folding of nested directory results and collision detection

package hierarchy_test

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/hierarchy"
	"github.com/arthur-debert/activate/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func result(dir string, old, next map[string]string) types.DirectoryResult {
	return types.DirectoryResult{Dir: dir, Old: old, New: next}
}

func TestAggregate_Single(t *testing.T) {
	consolidated, err := hierarchy.Aggregate([]types.DirectoryResult{
		result("/proj", map[string]string{"PORT": "8080"}, map[string]string{"PORT": "9090"}),
	})
	require.NoError(t, err)
	require.Len(t, consolidated, 1)
	assert.Equal(t, "/proj", consolidated[0].Dir)
	assert.Equal(t, map[string]string{"PORT": "8080"}, consolidated[0].Old)
	assert.Equal(t, map[string]string{"PORT": "9090"}, consolidated[0].New)
	assert.Equal(t, map[string]string{"PORT": "/proj"}, consolidated[0].Sources)
}

func TestAggregate_Nested(t *testing.T) {
	consolidated, err := hierarchy.Aggregate([]types.DirectoryResult{
		result("/a/b/c", nil, map[string]string{"C": "3"}),
		result("/a", map[string]string{"OLD_A": "x"}, map[string]string{"A": "1"}),
		result("/a/b", map[string]string{"OLD_B": "y"}, map[string]string{"B": "2"}),
		result("/a/b2", nil, map[string]string{"B2": "4"}),
	})
	require.NoError(t, err)
	require.Len(t, consolidated, 4)

	byDir := map[string]types.ConsolidatedResult{}
	var order []string
	for _, c := range consolidated {
		byDir[c.Dir] = c
		order = append(order, c.Dir)
	}
	assert.Equal(t, []string{"/a", "/a/b", "/a/b/c", "/a/b2"}, order)

	assert.Equal(t, map[string]string{"A": "1", "B": "2", "C": "3", "B2": "4"}, byDir["/a"].New)
	assert.Equal(t, map[string]string{"OLD_A": "x", "OLD_B": "y"}, byDir["/a"].Old)
	assert.Equal(t, "/a/b/c", byDir["/a"].Sources["C"])

	// /a/b2 is a sibling of /a/b, not a descendant.
	assert.Equal(t, map[string]string{"B": "2", "C": "3"}, byDir["/a/b"].New)
	assert.Equal(t, map[string]string{"B2": "4"}, byDir["/a/b2"].New)
}

func TestAggregate_OldMapsDoNotCollide(t *testing.T) {
	consolidated, err := hierarchy.Aggregate([]types.DirectoryResult{
		result("/a", map[string]string{"X": "1"}, nil),
		result("/a/b", map[string]string{"X": "2"}, nil),
	})
	require.NoError(t, err)
	assert.Contains(t, consolidated[0].Old, "X")
}

func TestAggregate_Collision(t *testing.T) {
	_, err := hierarchy.Aggregate([]types.DirectoryResult{
		result("/a/b", nil, map[string]string{"X": "2"}),
		result("/a", nil, map[string]string{"X": "1"}),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrVariableCollision))
	assert.Equal(t, errors.CategoryCollision, errors.CategoryOf(err))

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "X", details["key"])
	assert.Equal(t, "/a", details["path_a"])
	assert.Equal(t, "/a/b", details["path_b"])
}

func TestAggregate_CollisionBetweenDescendants(t *testing.T) {
	_, err := hierarchy.Aggregate([]types.DirectoryResult{
		result("/a", nil, nil),
		result("/a/b", nil, map[string]string{"X": "1"}),
		result("/a/c", nil, map[string]string{"X": "1"}),
	})
	require.Error(t, err)
	details := errors.GetErrorDetails(err)
	assert.Equal(t, "/a/b", details["path_a"])
	assert.Equal(t, "/a/c", details["path_b"])
}

func TestAggregate_SiblingsDoNotCollide(t *testing.T) {
	consolidated, err := hierarchy.Aggregate([]types.DirectoryResult{
		result("/a/b", nil, map[string]string{"X": "1"}),
		result("/a/c", nil, map[string]string{"X": "2"}),
	})
	require.NoError(t, err)
	assert.Len(t, hierarchy.Roots(consolidated), 2)
}

func TestRoots(t *testing.T) {
	consolidated, err := hierarchy.Aggregate([]types.DirectoryResult{
		result("/a", nil, nil),
		result("/a/b", nil, nil),
		result("/c", nil, nil),
		result("/c/d/e", nil, nil),
	})
	require.NoError(t, err)

	var dirs []string
	for _, r := range hierarchy.Roots(consolidated) {
		dirs = append(dirs, r.Dir)
	}
	assert.Equal(t, []string{"/a", "/c"}, dirs)
}

func TestAggregate_RootHoldsEveryVariable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		depth := rapid.IntRange(1, 5).Draw(t, "depth")

		// A chain /r, /r/d1, /r/d1/d2, ... where each level exports unique names.
		var results []types.DirectoryResult
		dir := "/r"
		total := 0
		for level := 0; level < depth; level++ {
			count := rapid.IntRange(0, 4).Draw(t, fmt.Sprintf("count%d", level))
			vars := map[string]string{}
			for i := 0; i < count; i++ {
				vars[fmt.Sprintf("V%d_%d", level, i)] = fmt.Sprintf("%d", i)
			}
			total += count
			results = append(results, result(dir, nil, vars))
			dir = fmt.Sprintf("%s/d%d", dir, level+1)
		}

		consolidated, err := hierarchy.Aggregate(results)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		roots := hierarchy.Roots(consolidated)
		if len(roots) != 1 || roots[0].Dir != "/r" {
			t.Fatalf("expected single root /r, got %v", roots)
		}
		if len(roots[0].New) != total {
			t.Fatalf("root holds %d variables, want %d", len(roots[0].New), total)
		}
		for name, source := range roots[0].Sources {
			if roots[0].New[name] == "" {
				t.Fatalf("source recorded for unknown variable %s (%s)", name, source)
			}
		}
	})
}

func TestAggregate_SharedNameAlwaysCollides(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Z]{1,4}`).Draw(t, "name")
		parent := result("/p", nil, map[string]string{name: rapid.String().Draw(t, "a")})
		child := result("/p/c", nil, map[string]string{name: rapid.String().Draw(t, "b")})

		_, err := hierarchy.Aggregate([]types.DirectoryResult{child, parent})
		if !errors.IsErrorCode(err, errors.ErrVariableCollision) {
			t.Fatalf("expected collision for %s, got %v", name, err)
		}
	})
}
