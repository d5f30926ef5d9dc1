package links

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/arthur-debert/activate/pkg/paths"
	"github.com/arthur-debert/activate/pkg/types"
)

// Manager creates and removes declared symlinks.
type Manager struct {
	fs types.FS
}

// New creates a Manager backed by filesystem.
func New(filesystem types.FS) *Manager {
	return &Manager{fs: filesystem}
}

// Create links baseDir/target to baseDir/source.
// Nothing on disk is modified unless every check passes.
func (m *Manager) Create(source, target, baseDir string) error {
	logger := logging.GetLogger("links").With().
		Str("dir", baseDir).
		Str("source", source).
		Str("target", target).
		Logger()

	src, err := paths.NormalizeLinkPath(source)
	if err != nil {
		return err
	}
	tgt, err := paths.NormalizeLinkPath(target)
	if err != nil {
		return err
	}

	sourcePath := filepath.Join(baseDir, src)
	sourceInfo, err := m.fs.Stat(sourcePath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Newf(errors.ErrSourceMissing, "the source `%s` does not exist", sourcePath).
				WithDetail("source", sourcePath)
		}
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "could not inspect source `%s`", sourcePath).
			WithDetail("source", sourcePath)
	}

	targetPath := filepath.Join(baseDir, tgt)
	if err := m.checkTargetFree(targetPath); err != nil {
		return err
	}

	linkValue := RelativeLinkValue(src, tgt)
	kind := "file"
	if sourceInfo.IsDir() {
		kind = "dir"
	}

	if err := m.fs.Symlink(linkValue, targetPath); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate,
			"could not create link from `%s` to `%s` in directory `%s`", source, target, baseDir).
			WithDetail("source", sourcePath).
			WithDetail("target", targetPath)
	}

	logger.Debug().Str("link", linkValue).Str("kind", kind).Msg("Created symlink")
	return nil
}

func (m *Manager) checkTargetFree(targetPath string) error {
	info, err := m.fs.Lstat(targetPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "could not inspect target `%s`", targetPath).
			WithDetail("target", targetPath)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return errors.Newf(errors.ErrLinkExists,
			"the link `%s` already exists, remove it before activating", targetPath).
			WithDetail("target", targetPath)
	}

	return errors.Newf(errors.ErrTargetExists,
		"the target `%s` already exists, remove it before activating", targetPath).
		WithDetail("target", targetPath)
}

// Remove deletes the symlink at baseDir/target.
// A missing target is not an error; anything that is not a symlink is
// refused and left in place.
func (m *Manager) Remove(target, baseDir string) error {
	tgt, err := paths.NormalizeLinkPath(target)
	if err != nil {
		return err
	}
	targetPath := filepath.Join(baseDir, tgt)

	logger := logging.GetLogger("links")
	info, err := m.fs.Lstat(targetPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Trace().Str("target", targetPath).Msg("Link already removed")
			return nil
		}
		return errors.Wrapf(err, errors.ErrSymlinkRemove, "could not inspect link `%s`", targetPath).
			WithDetail("target", targetPath)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return errors.Newf(errors.ErrNotASymlink,
			"the existing link `%s` is not a symlink, therefore it will not be removed", targetPath).
			WithDetail("target", targetPath)
	}

	if err := m.fs.Remove(targetPath); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkRemove, "could not remove link `%s`", targetPath).
			WithDetail("target", targetPath)
	}

	logger.Debug().Str("target", targetPath).Msg("Removed symlink")
	return nil
}

// RelativeLinkValue returns the value stored in the symlink at target so
// that it resolves to source: one ".." per directory above target, then
// source. Both paths are relative to the same base directory.
func RelativeLinkValue(source, target string) string {
	depth := len(strings.Split(filepath.ToSlash(filepath.Clean(target)), "/")) - 1

	parts := make([]string, 0, depth+1)
	for i := 0; i < depth; i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, filepath.Clean(source))

	return filepath.Join(parts...)
}
