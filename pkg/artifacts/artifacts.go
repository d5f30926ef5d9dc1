package artifacts

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/activate/pkg/config"
	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/logging"
	"github.com/arthur-debert/activate/pkg/paths"
	"github.com/arthur-debert/activate/pkg/types"
	"gopkg.in/yaml.v3"
)

var (
	invalidNameChars = regexp.MustCompile(`[^a-z0-9-]+`)
	plainDotEnvValue = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]*$`)
)

// ConfigMap is the manifest written to configmap.yaml.
type ConfigMap struct {
	APIVersion string            `yaml:"apiVersion"`
	Kind       string            `yaml:"kind"`
	Metadata   Metadata          `yaml:"metadata"`
	Data       map[string]string `yaml:"data"`
}

// Metadata is the ConfigMap metadata block.
type Metadata struct {
	Name string `yaml:"name"`
}

type artifact struct {
	enabled bool
	path    string
	render  func() ([]byte, error)
}

// Write renders the enabled artifacts of vars under dir/.activate.
// An empty vars removes every artifact instead.
func Write(filesystem types.FS, dir string, vars map[string]string, settings config.Artifacts) error {
	logger := logging.GetLogger("artifacts").With().Str("dir", dir).Logger()

	all := []artifact{
		{settings.DotEnv, paths.DotEnvPath(dir), func() ([]byte, error) { return RenderDotEnv(vars), nil }},
		{settings.JSON, paths.JSONPath(dir), func() ([]byte, error) { return RenderJSON(vars) }},
		{settings.ConfigMap, paths.ConfigMapPath(dir), func() ([]byte, error) {
			return RenderConfigMap(ConfigMapName(dir, settings.ConfigMapName), vars)
		}},
	}

	if len(vars) == 0 {
		for _, a := range all {
			if err := filesystem.Remove(a.path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
				return errors.Wrapf(err, errors.ErrStateIO, "could not remove `%s`", a.path).
					WithDetail("path", a.path)
			}
		}
		logger.Debug().Msg("Removed artifacts")
		return nil
	}

	if err := filesystem.MkdirAll(paths.ActivateDir(dir), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrStateIO, "could not create `%s`", paths.ActivateDir(dir))
	}

	for _, a := range all {
		if !a.enabled {
			continue
		}
		data, err := a.render()
		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "could not render `%s`", filepath.Base(a.path))
		}
		if err := filesystem.WriteFile(a.path, data, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrStateIO, "could not write `%s`", a.path).
				WithDetail("path", a.path)
		}
		logger.Trace().Str("path", a.path).Msg("Wrote artifact")
	}
	return nil
}

// RenderDotEnv returns sorted KEY=VALUE lines.
func RenderDotEnv(vars map[string]string) []byte {
	var b bytes.Buffer
	for _, name := range types.SortedKeys(vars) {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(dotEnvValue(vars[name]))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func dotEnvValue(value string) string {
	if plainDotEnvValue.MatchString(value) {
		return value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, `$`, `\$`).Replace(value)
	return `"` + escaped + `"`
}

// RenderJSON returns vars as an indented JSON object with sorted keys.
func RenderJSON(vars map[string]string) ([]byte, error) {
	data, err := json.MarshalIndent(vars, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RenderConfigMap returns a v1 ConfigMap manifest named name holding vars.
func RenderConfigMap(name string, vars map[string]string) ([]byte, error) {
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	err := enc.Encode(ConfigMap{
		APIVersion: "v1",
		Kind:       "ConfigMap",
		Metadata:   Metadata{Name: name},
		Data:       vars,
	})
	if err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// ConfigMapName returns override, or a DNS-safe name derived from dir.
func ConfigMapName(dir, override string) string {
	if override != "" {
		return override
	}
	base := strings.ToLower(filepath.Base(filepath.Clean(dir)))
	base = strings.Trim(invalidNameChars.ReplaceAllString(base, "-"), "-")
	if base == "" {
		return "env"
	}
	return base + "-env"
}
