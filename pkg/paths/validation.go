package paths

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/activate/pkg/errors"
)

// ValidateLinkPath checks a source or target path from a link declaration.
// Link paths are relative to the config file's directory and must not
// start with a "." or ".." segment, neither as written nor once cleaned.
func ValidateLinkPath(path string) error {
	if path == "" {
		return errors.New(errors.ErrInvalidPath, "link path cannot be empty").
			WithDetail("path", path)
	}

	if strings.Contains(path, "\x00") {
		return errors.New(errors.ErrInvalidPath, "link path contains null bytes").
			WithDetail("path", path)
	}

	if filepath.IsAbs(path) {
		return errors.Newf(errors.ErrInvalidPath,
			"the path `%s` must be relative to the directory of %s", path, ConfigFileName).
			WithDetail("path", path)
	}

	for _, candidate := range []string{path, filepath.Clean(path)} {
		first := strings.SplitN(filepath.ToSlash(candidate), "/", 2)[0]
		if first == "." || first == ".." {
			return errors.Newf(errors.ErrInvalidPath,
				"the path `%s` should not start with `./` or `../`, it is relative to the directory of %s",
				path, ConfigFileName).
				WithDetail("path", path)
		}
	}

	return nil
}

// NormalizeLinkPath validates path and returns its cleaned form.
func NormalizeLinkPath(path string) (string, error) {
	if err := ValidateLinkPath(path); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}
