package activation

import (
	"context"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/arthur-debert/activate/pkg/artifacts"
	"github.com/arthur-debert/activate/pkg/config"
	"github.com/arthur-debert/activate/pkg/discovery"
	"github.com/arthur-debert/activate/pkg/engine"
	"github.com/arthur-debert/activate/pkg/environments"
	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/filesystem"
	"github.com/arthur-debert/activate/pkg/hierarchy"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/arthur-debert/activate/pkg/paths"
	"github.com/arthur-debert/activate/pkg/shell"
	"github.com/arthur-debert/activate/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Options describes one run.
type Options struct {
	// Dir is the directory to activate, or the root of the tree.
	Dir string
	// Name is the environment to activate; empty deactivates.
	Name      string
	Recursive bool
	// Workers bounds parallel activations; 0 uses one per CPU.
	Workers   int
	Discovery discovery.Options
	Artifacts config.Artifacts
	// FS defaults to the OS filesystem.
	FS types.FS
}

// Result is the outcome of a run.
type Result struct {
	// Directories holds one result per activated directory, sorted by path.
	Directories  []types.DirectoryResult
	Consolidated []types.ConsolidatedResult
	// Output is the shell emission of every root directory.
	Output string
}

// Run activates opts.Name in opts.Dir, or in every declaring directory
// below it when opts.Recursive is set.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("activation")
	defer logging.LogOperationStart(logger, "run")()

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid directory `%s`", opts.Dir)
	}

	eng := engine.New(fs)

	var results []types.DirectoryResult
	if opts.Recursive {
		results, err = runTree(ctx, eng, dir, opts)
	} else {
		results, err = runSingle(fs, eng, dir, opts.Name)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Dir < results[j].Dir })

	consolidated, err := hierarchy.Aggregate(results)
	if err != nil {
		return nil, err
	}

	for _, c := range consolidated {
		if err := artifacts.Write(fs, c.Dir, c.New, opts.Artifacts); err != nil {
			return nil, err
		}
	}

	var blocks []string
	for _, root := range hierarchy.Roots(consolidated) {
		if block := shell.Render(root.Old, root.New); block != "" {
			blocks = append(blocks, block)
		}
	}

	logger.Info().
		Str("dir", dir).
		Str("environment", opts.Name).
		Int("directories", len(results)).
		Msg("Run complete")

	return &Result{
		Directories:  results,
		Consolidated: consolidated,
		Output:       strings.Join(blocks, "\n"),
	}, nil
}

func runSingle(fs types.FS, eng *engine.Engine, dir, name string) ([]types.DirectoryResult, error) {
	if !environments.Exists(fs, dir) {
		return nil, errors.Newf(errors.ErrConfigNotFound, "no `%s` file found in `%s`", paths.ConfigFileName, dir).
			WithDetail("path", paths.ConfigPath(dir))
	}
	result, err := eng.Apply(dir, name)
	if err != nil {
		return nil, err
	}
	return []types.DirectoryResult{result}, nil
}

// runTree streams discovered directories into a bounded pool of engine
// tasks. The first failure cancels the pool: queued tasks are skipped,
// tasks already running finish.
func runTree(ctx context.Context, eng *engine.Engine, root string, opts Options) ([]types.DirectoryResult, error) {
	logger := logging.GetLogger("activation").With().Str("root", root).Logger()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	dirs := make(chan string)
	results := make(chan types.DirectoryResult)
	collected := make(chan []types.DirectoryResult, 1)

	go func() {
		var all []types.DirectoryResult
		for r := range results {
			all = append(all, r)
		}
		collected <- all
	}()

	g, gctx := errgroup.WithContext(ctx)
	// One slot is held by the walker for the whole run.
	g.SetLimit(workers + 1)

	g.Go(func() error {
		defer close(dirs)
		return discovery.Walk(gctx, root, opts.Discovery, dirs)
	})

	for dir := range dirs {
		dir := dir
		g.Go(func() error {
			if gctx.Err() != nil {
				logger.Debug().Str("dir", dir).Msg("Skipping directory after failure")
				return nil
			}
			result, err := eng.Apply(dir, opts.Name)
			if err != nil {
				return err
			}
			results <- result
			return nil
		})
	}

	err := g.Wait()
	close(results)
	all := <-collected
	if err != nil {
		return nil, err
	}
	return all, nil
}
