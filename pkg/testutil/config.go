package testutil

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Env describes one environment for WriteEnvironments.
type Env struct {
	Vars  map[string]string
	Links map[string]string
}

// WriteActivateToml writes raw content to dir/activate.toml.
func WriteActivateToml(t *testing.T, dir, content string) string {
	t.Helper()
	return CreateFile(t, dir, "activate.toml", content)
}

// WriteEnvironments renders envs as activate.toml in dir.
// Output is sorted so files are stable across runs.
func WriteEnvironments(t *testing.T, dir string, envs map[string]Env) string {
	t.Helper()

	names := make([]string, 0, len(envs))
	for name := range envs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		env := envs[name]
		fmt.Fprintf(&b, "[%s]\n", name)
		if env.Vars != nil {
			fmt.Fprintf(&b, "env = %s\n", inlineTable(env.Vars))
		}
		if env.Links != nil {
			fmt.Fprintf(&b, "links = %s\n", inlineTable(env.Links))
		}
		b.WriteString("\n")
	}

	return WriteActivateToml(t, filepath.Clean(dir), b.String())
}

func inlineTable(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%q = %q", k, m[k]))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
