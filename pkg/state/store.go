package state

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"maps"

	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/links"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/arthur-debert/activate/pkg/paths"
	"github.com/arthur-debert/activate/pkg/shell"
	"github.com/arthur-debert/activate/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
)

const gitIgnoreContent = "*\n"

// Store reads and writes the active state records of directories.
type Store struct {
	fs    types.FS
	links *links.Manager
}

// New creates a Store. Link creation and removal go through linkManager.
func New(filesystem types.FS, linkManager *links.Manager) *Store {
	return &Store{
		fs:    filesystem,
		links: linkManager,
	}
}

// Load returns the recorded state of dir without modifying anything.
// Missing records yield nil maps.
func (s *Store) Load(dir string) (types.ActiveState, error) {
	vars, err := s.readVariables(dir)
	if err != nil {
		return types.ActiveState{}, err
	}
	recorded, err := s.readLinks(dir)
	if err != nil {
		return types.ActiveState{}, err
	}
	return types.ActiveState{Variables: vars, Links: recorded}, nil
}

// HasState reports whether dir has a state directory.
func (s *Store) HasState(dir string) (bool, error) {
	stateDir := paths.StateDir(dir)
	info, err := s.fs.Stat(stateDir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrStateIO, "could not stat `%s`", stateDir).
			WithDetail("path", stateDir)
	}
	if !info.IsDir() {
		return false, errors.Newf(errors.ErrStateIO, "`%s` is not a directory", stateDir).
			WithDetail("path", stateDir)
	}
	return true, nil
}

// EnsureStateDir creates the state directory of dir and its .gitignore.
// created is true when the directory did not exist before.
func (s *Store) EnsureStateDir(dir string) (created bool, err error) {
	exists, err := s.HasState(dir)
	if err != nil {
		return false, err
	}

	stateDir := paths.StateDir(dir)
	if !exists {
		if err := s.fs.MkdirAll(stateDir, 0755); err != nil {
			return false, errors.Wrapf(err, errors.ErrStateIO, "could not create `%s`", stateDir).
				WithDetail("path", stateDir)
		}
	}

	ignorePath := paths.StateGitIgnore(dir)
	if _, err := s.fs.Stat(ignorePath); stderrors.Is(err, fs.ErrNotExist) {
		if err := s.fs.WriteFile(ignorePath, []byte(gitIgnoreContent), 0644); err != nil {
			return false, errors.Wrapf(err, errors.ErrStateIO, "could not write `%s`", ignorePath).
				WithDetail("path", ignorePath)
		}
	}

	if !exists {
		logger := logging.GetLogger("state")
		logger.Debug().Str("dir", dir).Msg("Created state directory")
	}
	return !exists, nil
}

// ClearVariables deletes the variables record of dir and returns what it held.
func (s *Store) ClearVariables(dir string) (map[string]string, error) {
	vars, err := s.readVariables(dir)
	if err != nil {
		return nil, err
	}
	if vars == nil {
		return nil, nil
	}
	if err := s.deleteRecord(paths.EnvFile(dir)); err != nil {
		return nil, err
	}

	logger := logging.GetLogger("state")
	logger.Debug().
		Str("dir", dir).
		Int("variables", len(vars)).
		Msg("Cleared active variables")
	return vars, nil
}

// ClearLinks removes every recorded link of dir, then deletes the record.
// If a link cannot be removed the record is kept so a later run can retry.
func (s *Store) ClearLinks(dir string) (map[string]string, error) {
	recorded, err := s.readLinks(dir)
	if err != nil {
		return nil, err
	}
	if recorded == nil {
		return nil, nil
	}

	logger := logging.GetLogger("state").With().Str("dir", dir).Logger()
	for _, source := range types.SortedKeys(recorded) {
		target := recorded[source]
		if err := s.links.Remove(target, dir); err != nil {
			return nil, err
		}
		logger.Trace().Str("source", source).Str("target", target).Msg("Removed link")
	}

	if err := s.deleteRecord(paths.LinksFile(dir)); err != nil {
		return nil, err
	}

	logger.Debug().Int("links", len(recorded)).Msg("Cleared active links")
	return recorded, nil
}

// AppendVariables merges vars into the variables record of dir.
func (s *Store) AppendVariables(dir string, vars map[string]string) error {
	if len(vars) == 0 {
		return nil
	}
	if _, err := s.EnsureStateDir(dir); err != nil {
		return err
	}

	merged, err := s.readVariables(dir)
	if err != nil {
		return err
	}
	if merged == nil {
		merged = make(map[string]string, len(vars))
	}
	maps.Copy(merged, vars)

	data, err := json.Marshal(merged)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "could not encode active variables")
	}

	envPath := paths.EnvFile(dir)
	if err := s.fs.WriteFile(envPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateIO, "could not write `%s`", envPath).
			WithDetail("path", envPath)
	}

	logger := logging.GetLogger("state")
	logger.Debug().
		Str("dir", dir).
		Int("variables", len(vars)).
		Msg("Recorded active variables")
	return nil
}

// AppendLinks creates each link in ascending source order and records it
// as soon as it exists. The first failure stops the loop; links created
// before it stay in place and stay recorded.
func (s *Store) AppendLinks(dir string, declared map[string]string) error {
	if len(declared) == 0 {
		return nil
	}
	if _, err := s.EnsureStateDir(dir); err != nil {
		return err
	}

	recorded, err := s.readLinks(dir)
	if err != nil {
		return err
	}
	if recorded == nil {
		recorded = make(map[string]string, len(declared))
	}

	logger := logging.GetLogger("state").With().Str("dir", dir).Logger()
	for _, source := range types.SortedKeys(declared) {
		target := declared[source]
		if err := s.links.Create(source, target, dir); err != nil {
			return err
		}

		_, rewrite := recorded[source]
		recorded[source] = target
		if rewrite {
			err = s.writeLinks(dir, recorded)
		} else {
			err = s.appendLink(dir, source, target)
		}
		if err != nil {
			return err
		}
		logger.Trace().Str("source", source).Str("target", target).Msg("Recorded link")
	}

	logger.Debug().Int("links", len(declared)).Msg("Recorded active links")
	return nil
}

func (s *Store) readVariables(dir string) (map[string]string, error) {
	envPath := paths.EnvFile(dir)
	data, found, err := s.readRecord(envPath)
	if err != nil || !found {
		return nil, err
	}

	vars := map[string]string{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return vars, nil
	}
	if err := json.Unmarshal(trimmed, &vars); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStateCorrupt, "could not parse `%s`", envPath).
			WithDetail("path", envPath)
	}
	// A literal null decodes to a nil map.
	if vars == nil {
		vars = map[string]string{}
	}
	for name := range vars {
		if !shell.IsValidName(name) {
			return nil, errors.Newf(errors.ErrStateCorrupt, "`%s` records an invalid variable name `%s`", envPath, name).
				WithDetail("path", envPath).
				WithDetail("name", name)
		}
	}
	return vars, nil
}

func (s *Store) readLinks(dir string) (map[string]string, error) {
	linksPath := paths.LinksFile(dir)
	data, found, err := s.readRecord(linksPath)
	if err != nil || !found {
		return nil, err
	}

	recorded := map[string]string{}
	if err := toml.Unmarshal(data, &recorded); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStateCorrupt, "could not parse `%s`", linksPath).
			WithDetail("path", linksPath)
	}
	return recorded, nil
}

func (s *Store) appendLink(dir, source, target string) error {
	line, err := toml.Marshal(map[string]string{source: target})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "could not encode link record")
	}

	linksPath := paths.LinksFile(dir)
	if err := s.fs.AppendFile(linksPath, line, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateIO, "could not append to `%s`", linksPath).
			WithDetail("path", linksPath)
	}
	return nil
}

func (s *Store) writeLinks(dir string, recorded map[string]string) error {
	data, err := toml.Marshal(recorded)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "could not encode link record")
	}

	linksPath := paths.LinksFile(dir)
	if err := s.fs.WriteFile(linksPath, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateIO, "could not write `%s`", linksPath).
			WithDetail("path", linksPath)
	}
	return nil
}

func (s *Store) readRecord(path string) ([]byte, bool, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, errors.ErrStateIO, "could not read `%s`", path).
			WithDetail("path", path)
	}
	return data, true, nil
}

func (s *Store) deleteRecord(path string) error {
	if err := s.fs.Remove(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, errors.ErrStateIO, "could not delete `%s`", path).
			WithDetail("path", path)
	}
	return nil
}
