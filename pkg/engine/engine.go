package engine

import (
	"maps"

	"github.com/arthur-debert/activate/pkg/environments"
	"github.com/arthur-debert/activate/pkg/links"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/arthur-debert/activate/pkg/state"
	"github.com/arthur-debert/activate/pkg/types"
)

// Engine activates and deactivates environments in directories.
type Engine struct {
	fs    types.FS
	store *state.Store
}

// New creates an Engine backed by filesystem.
func New(filesystem types.FS) *Engine {
	return &Engine{
		fs:    filesystem,
		store: state.New(filesystem, links.New(filesystem)),
	}
}

// Apply activates name in dir, or deactivates dir when name is empty.
func (e *Engine) Apply(dir, name string) (types.DirectoryResult, error) {
	if name == "" {
		return e.Deactivate(dir)
	}
	return e.Activate(dir, name)
}

// Activate replaces whatever is active in dir with the environment called name.
// An unknown name fails before anything on disk is touched.
func (e *Engine) Activate(dir, name string) (types.DirectoryResult, error) {
	logger := logging.GetLogger("engine").With().Str("dir", dir).Str("environment", name).Logger()
	result := emptyResult(dir)

	envs, err := environments.Load(e.fs, dir)
	if err != nil {
		return result, err
	}
	env, err := environments.Select(envs, name)
	if err != nil {
		return result, err
	}

	active, err := e.store.HasState(dir)
	if err != nil {
		return result, err
	}
	if active {
		old, err := e.clear(dir)
		if err != nil {
			return result, err
		}
		result.Old = old
	} else if _, err := e.store.EnsureStateDir(dir); err != nil {
		return result, err
	}

	if err := e.store.AppendVariables(dir, env.Env); err != nil {
		return result, err
	}
	if err := e.store.AppendLinks(dir, env.Links); err != nil {
		return result, err
	}
	maps.Copy(result.New, env.Env)

	logger.Info().
		Int("unset", len(result.Old)).
		Int("exported", len(result.New)).
		Int("links", len(env.Links)).
		Msg("Activated environment")
	return result, nil
}

// Deactivate clears whatever is active in dir. Deactivating an inactive
// directory is a no-op with an empty result.
func (e *Engine) Deactivate(dir string) (types.DirectoryResult, error) {
	result := emptyResult(dir)

	active, err := e.store.HasState(dir)
	if err != nil || !active {
		return result, err
	}

	old, err := e.clear(dir)
	if err != nil {
		return result, err
	}
	result.Old = old

	logger := logging.GetLogger("engine")
	logger.Info().
		Str("dir", dir).
		Int("unset", len(old)).
		Msg("Deactivated environment")
	return result, nil
}

// Status returns the recorded state of dir.
func (e *Engine) Status(dir string) (types.ActiveState, error) {
	return e.store.Load(dir)
}

func (e *Engine) clear(dir string) (map[string]string, error) {
	old := map[string]string{}

	vars, err := e.store.ClearVariables(dir)
	if err != nil {
		return old, err
	}
	maps.Copy(old, vars)

	if _, err := e.store.ClearLinks(dir); err != nil {
		return old, err
	}
	return old, nil
}

func emptyResult(dir string) types.DirectoryResult {
	return types.DirectoryResult{
		Dir: dir,
		Old: map[string]string{},
		New: map[string]string{},
	}
}
