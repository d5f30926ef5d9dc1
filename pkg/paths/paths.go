package paths

import (
	"path/filepath"
	"strings"
)

// IMPORTANT: these names define the on-disk state layout. Changing them
// orphans the state of every directory activated by a previous version.
const (
	// ConfigFileName is the declaration source looked up in every directory
	ConfigFileName = "activate.toml"

	// ActivateDirName holds state and generated artifacts
	ActivateDirName = ".activate"

	// StateDirName is the subdirectory for the active state records
	StateDirName = "state"

	// EnvFileName records the active variables (JSON)
	EnvFileName = "env.json"

	// LinksFileName records the active links (TOML, appended)
	LinksFileName = "links.toml"

	// GitIgnoreFileName keeps the state directory out of version control
	GitIgnoreFileName = ".gitignore"

	// DotEnvFileName is the KEY=VALUE artifact
	DotEnvFileName = ".env"

	// JSONFileName is the JSON artifact
	JSONFileName = "env.json"

	// ConfigMapFileName is the ConfigMap artifact
	ConfigMapFileName = "configmap.yaml"
)

// ConfigPath returns the declaration file of dir.
func ConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// ActivateDir returns dir/.activate.
func ActivateDir(dir string) string {
	return filepath.Join(dir, ActivateDirName)
}

// StateDir returns dir/.activate/state.
func StateDir(dir string) string {
	return filepath.Join(dir, ActivateDirName, StateDirName)
}

// EnvFile returns the active variables record of dir.
func EnvFile(dir string) string {
	return filepath.Join(StateDir(dir), EnvFileName)
}

// LinksFile returns the active links record of dir.
func LinksFile(dir string) string {
	return filepath.Join(StateDir(dir), LinksFileName)
}

// StateGitIgnore returns the .gitignore written into the state directory.
func StateGitIgnore(dir string) string {
	return filepath.Join(StateDir(dir), GitIgnoreFileName)
}

// DotEnvPath returns the .env artifact of dir.
func DotEnvPath(dir string) string {
	return filepath.Join(ActivateDir(dir), DotEnvFileName)
}

// JSONPath returns the JSON artifact of dir.
func JSONPath(dir string) string {
	return filepath.Join(ActivateDir(dir), JSONFileName)
}

// ConfigMapPath returns the ConfigMap artifact of dir.
func ConfigMapPath(dir string) string {
	return filepath.Join(ActivateDir(dir), ConfigMapFileName)
}

// IsDescendant reports whether child lies strictly below parent.
// Comparison is component-wise: /a/b2 is not below /a/b.
func IsDescendant(parent, child string) bool {
	parent = filepath.Clean(parent)
	child = filepath.Clean(child)
	if parent == child {
		return false
	}

	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
