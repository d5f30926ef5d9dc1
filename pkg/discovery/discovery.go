package discovery

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/arthur-debert/activate/pkg/paths"
	"golang.org/x/sync/errgroup"
)

// Options controls which parts of a tree are visited.
type Options struct {
	// SkipHidden skips entries whose name starts with a dot.
	SkipHidden bool
	// GitIgnore honors .gitignore files found during the walk.
	GitIgnore bool
	// Ignore holds extra gitignore-style patterns, relative to the root.
	Ignore []string
}

// DefaultOptions skips hidden entries and honors .gitignore files.
func DefaultOptions() Options {
	return Options{SkipHidden: true, GitIgnore: true}
}

// Walk sends every directory under root (root included) that contains an
// activate.toml to out. It does not close out.
func Walk(ctx context.Context, root string, opts Options, out chan<- string) error {
	root = filepath.Clean(root)
	logger := logging.GetLogger("discovery").With().Str("root", root).Logger()
	m := newMatcher(opts.Ignore)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) && path != root {
				return nil
			}
			return err
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		name := d.Name()

		if d.IsDir() {
			if path != root {
				if skipDir(name, opts) || m.match(rel, true) {
					logger.Trace().Str("dir", rel).Msg("Skipping directory")
					return filepath.SkipDir
				}
			}
			if opts.GitIgnore {
				base := rel
				if base == "." {
					base = ""
				}
				if err := m.loadFile(path, base); err != nil {
					return err
				}
			}
			return nil
		}

		if name != paths.ConfigFileName || m.match(rel, false) {
			return nil
		}

		dir := filepath.Dir(path)
		logger.Debug().Str("dir", dir).Msg("Found declarations")
		select {
		case out <- dir:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if walkErr != nil {
		if stderrors.Is(walkErr, context.Canceled) || stderrors.Is(walkErr, context.DeadlineExceeded) {
			return walkErr
		}
		return errors.Wrapf(walkErr, errors.ErrInvalidInput, "could not walk `%s`", root).
			WithDetail("path", root)
	}
	return nil
}

// Find collects the directories Walk reports, sorted by path.
func Find(ctx context.Context, root string, opts Options) ([]string, error) {
	out := make(chan string)
	var dirs []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(out)
		return Walk(gctx, root, opts, out)
	})
	g.Go(func() error {
		for dir := range out {
			dirs = append(dirs, dir)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(dirs)
	return dirs, nil
}

func skipDir(name string, opts Options) bool {
	if name == paths.ActivateDirName || name == ".git" {
		return true
	}
	return opts.SkipHidden && strings.HasPrefix(name, ".")
}
