package hierarchy

import (
	"maps"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/arthur-debert/activate/pkg/paths"
	"github.com/arthur-debert/activate/pkg/types"
)

// Aggregate returns one consolidated result per input directory, sorted by path.
// Descendants are folded in ascending path order; the first variable
// exported by two directories of the same subtree fails with VARIABLE_COLLISION.
func Aggregate(results []types.DirectoryResult) ([]types.ConsolidatedResult, error) {
	sorted := sortByDir(results)
	consolidated := make([]types.ConsolidatedResult, 0, len(sorted))

	for _, own := range sorted {
		acc := types.ConsolidatedResult{
			Dir:     own.Dir,
			Old:     make(map[string]string, len(own.Old)),
			New:     make(map[string]string, len(own.New)),
			Sources: make(map[string]string, len(own.New)),
		}
		maps.Copy(acc.Old, own.Old)
		for name, value := range own.New {
			acc.New[name] = value
			acc.Sources[name] = own.Dir
		}

		for _, descendant := range sorted {
			if !paths.IsDescendant(own.Dir, descendant.Dir) {
				continue
			}
			if err := fold(&acc, descendant); err != nil {
				return nil, err
			}
		}

		consolidated = append(consolidated, acc)
	}

	logger := logging.GetLogger("hierarchy")
	logger.Debug().
		Int("directories", len(consolidated)).
		Msg("Aggregated activation results")
	return consolidated, nil
}

// Roots returns the results that have no ancestor among consolidated.
func Roots(consolidated []types.ConsolidatedResult) []types.ConsolidatedResult {
	var roots []types.ConsolidatedResult
	for _, candidate := range consolidated {
		nested := false
		for _, other := range consolidated {
			if paths.IsDescendant(other.Dir, candidate.Dir) {
				nested = true
				break
			}
		}
		if !nested {
			roots = append(roots, candidate)
		}
	}
	return roots
}

func fold(acc *types.ConsolidatedResult, descendant types.DirectoryResult) error {
	// Check before merging so a failed fold never yields a half-merged map.
	for _, name := range types.SortedKeys(descendant.New) {
		if _, taken := acc.New[name]; taken {
			return errors.Newf(errors.ErrVariableCollision,
				"variable `%s` is defined in both `%s` and `%s`",
				name, acc.Sources[name], descendant.Dir).
				WithDetail("key", name).
				WithDetail("path_a", acc.Sources[name]).
				WithDetail("path_b", descendant.Dir)
		}
	}

	maps.Copy(acc.Old, descendant.Old)
	for name, value := range descendant.New {
		acc.New[name] = value
		acc.Sources[name] = descendant.Dir
	}
	return nil
}

func sortByDir(results []types.DirectoryResult) []types.DirectoryResult {
	sorted := make([]types.DirectoryResult, len(results))
	for i, r := range results {
		r.Dir = filepath.Clean(r.Dir)
		sorted[i] = r
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Dir < sorted[j].Dir
	})
	return sorted
}
