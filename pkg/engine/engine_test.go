// pkg/engine/engine_test.go
// TEST TYPE: Activation Engine Tests
// DEPENDENCIES: Real filesystem (temp dir)
// PURPOSE: Test the Inactive/Active state machine and its guarantees

package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/activate/pkg/engine"
	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/filesystem"
	"github.com/arthur-debert/activate/pkg/paths"
	"github.com/arthur-debert/activate/pkg/shell"
	"github.com/arthur-debert/activate/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newEngine() *engine.Engine {
	return engine.New(filesystem.NewOS())
}

func TestScenario_DevProdOff(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.WriteEnvironments(t, dir, map[string]testutil.Env{
		"dev":  {Vars: map[string]string{"PORT": "8080"}},
		"prod": {Vars: map[string]string{"PORT": "9090"}},
	})
	e := newEngine()

	result, err := e.Activate(dir, "dev")
	require.NoError(t, err)
	assert.Empty(t, result.Old)
	assert.Equal(t, map[string]string{"PORT": "8080"}, result.New)
	assert.Equal(t, "export PORT=8080", shell.Render(result.Old, result.New))

	result, err = e.Activate(dir, "prod")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PORT": "8080"}, result.Old)
	assert.Equal(t, map[string]string{"PORT": "9090"}, result.New)
	assert.Equal(t, "unset PORT\nexport PORT=9090", shell.Render(result.Old, result.New))

	result, err = e.Deactivate(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PORT": "9090"}, result.Old)
	assert.Empty(t, result.New)
	assert.Equal(t, "unset PORT", shell.Render(result.Old, result.New))
}

func TestDeactivate_Inactive(t *testing.T) {
	dir := testutil.TempDir(t)

	result, err := newEngine().Deactivate(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, result.Dir)
	assert.Empty(t, result.Old)
	assert.Empty(t, result.New)
	assert.False(t, testutil.PathExists(t, paths.ActivateDir(dir)), "deactivation must not create state")
}

func TestDeactivate_Twice(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.WriteEnvironments(t, dir, map[string]testutil.Env{
		"dev": {Vars: map[string]string{"A": "1"}},
	})
	e := newEngine()
	_, err := e.Activate(dir, "dev")
	require.NoError(t, err)

	first, err := e.Deactivate(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, first.Old)

	second, err := e.Deactivate(dir)
	require.NoError(t, err)
	assert.Empty(t, second.Old)
	assert.True(t, testutil.DirExists(t, paths.StateDir(dir)), "state dir is kept after deactivation")
	testutil.AssertNoFile(t, paths.EnvFile(dir))
}

func TestActivate_CreatesStateDir(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.WriteEnvironments(t, dir, map[string]testutil.Env{"empty": {}})

	result, err := newEngine().Activate(dir, "empty")
	require.NoError(t, err)
	assert.Empty(t, result.New)
	testutil.AssertFileContent(t, paths.StateGitIgnore(dir), "*\n")
}

func TestActivate_SelectionErrorsTouchNothing(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		env      string
		wantCode errors.ErrorCode
	}{
		{"unknown", "[dev]\nenv = { A = \"1\" }\n", "prod", errors.ErrUnknownEnvironment},
		{"none declared", "", "dev", errors.ErrNoEnvironments},
		{"malformed", "[dev\n", "dev", errors.ErrConfigParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.TempDir(t)
			testutil.WriteActivateToml(t, dir, tt.config)

			_, err := newEngine().Activate(dir, tt.env)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.wantCode), "got %v", err)
			assert.Equal(t, errors.CategoryConfig, errors.CategoryOf(err))
			assert.False(t, testutil.PathExists(t, paths.ActivateDir(dir)))
		})
	}
}

func TestActivate_UnknownNameKeepsActiveState(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.WriteEnvironments(t, dir, map[string]testutil.Env{
		"dev": {Vars: map[string]string{"A": "1"}},
	})
	e := newEngine()
	_, err := e.Activate(dir, "dev")
	require.NoError(t, err)

	_, err = e.Activate(dir, "nope")
	require.Error(t, err)

	active, err := e.Status(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, active.Variables)
}

func TestActivate_MissingConfig(t *testing.T) {
	dir := testutil.TempDir(t)

	_, err := newEngine().Activate(dir, "dev")
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigNotFound))
}

func TestActivate_Links(t *testing.T) {
	testutil.SkipOnWindows(t)
	dir := testutil.TempDir(t)
	testutil.CreateFile(t, dir, "configs/dev.yaml", "dev")
	testutil.CreateFile(t, dir, "configs/prod.yaml", "prod")
	testutil.WriteEnvironments(t, dir, map[string]testutil.Env{
		"dev":  {Links: map[string]string{"configs/dev.yaml": "config.yaml"}},
		"prod": {Links: map[string]string{"configs/prod.yaml": "config.yaml"}},
	})
	e := newEngine()
	link := filepath.Join(dir, "config.yaml")

	_, err := e.Activate(dir, "dev")
	require.NoError(t, err)
	assert.Equal(t, "dev", testutil.ReadFile(t, link))

	_, err = e.Activate(dir, "prod")
	require.NoError(t, err)
	assert.Equal(t, "prod", testutil.ReadFile(t, link))

	_, err = e.Deactivate(dir)
	require.NoError(t, err)
	testutil.AssertNoFile(t, link)
	testutil.AssertFileContent(t, filepath.Join(dir, "configs/prod.yaml"), "prod")
}

func TestActivate_PartialFailureIsRecoverable(t *testing.T) {
	testutil.SkipOnWindows(t)
	dir := testutil.TempDir(t)
	testutil.CreateFile(t, dir, "a", "a")
	testutil.CreateFile(t, dir, "b", "b")
	testutil.CreateFile(t, dir, "taken", "user data")
	testutil.WriteEnvironments(t, dir, map[string]testutil.Env{
		"dev": {
			Vars:  map[string]string{"A": "1"},
			Links: map[string]string{"a": "link_a", "b": "taken"},
		},
	})
	e := newEngine()

	_, err := e.Activate(dir, "dev")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTargetExists))
	testutil.AssertSymlink(t, filepath.Join(dir, "link_a"), "a")

	result, err := e.Deactivate(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, result.Old)
	testutil.AssertNoFile(t, filepath.Join(dir, "link_a"))
	testutil.AssertFileContent(t, filepath.Join(dir, "taken"), "user data")
}

func TestDeactivate_NotASymlink(t *testing.T) {
	testutil.SkipOnWindows(t)
	dir := testutil.TempDir(t)
	testutil.CreateFile(t, dir, "src", "src")
	testutil.WriteEnvironments(t, dir, map[string]testutil.Env{
		"dev": {Links: map[string]string{"src": "link"}},
	})
	e := newEngine()
	_, err := e.Activate(dir, "dev")
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "link")))
	testutil.CreateFile(t, dir, "link", "replaced by user")

	_, err = e.Deactivate(dir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotASymlink))
	testutil.AssertFileContent(t, filepath.Join(dir, "link"), "replaced by user")
}

func TestApply(t *testing.T) {
	dir := testutil.TempDir(t)
	testutil.WriteEnvironments(t, dir, map[string]testutil.Env{
		"dev": {Vars: map[string]string{"A": "1"}},
	})
	e := newEngine()

	result, err := e.Apply(dir, "dev")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, result.New)

	result, err = e.Apply(dir, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, result.Old)
	assert.Empty(t, result.New)
}

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		vars := rapid.MapOf(
			rapid.StringMatching(`[A-Z][A-Z0-9_]{0,6}`),
			rapid.StringMatching(`[a-zA-Z0-9 ._-]{0,12}`),
		).Draw(rt, "vars")

		dir, err := os.MkdirTemp(t.TempDir(), "roundtrip")
		if err != nil {
			rt.Fatalf("tempdir: %v", err)
		}
		testutil.WriteEnvironments(t, dir, map[string]testutil.Env{"env": {Vars: vars}})
		e := newEngine()

		if _, err := e.Activate(dir, "env"); err != nil {
			rt.Fatalf("activate: %v", err)
		}
		result, err := e.Deactivate(dir)
		if err != nil {
			rt.Fatalf("deactivate: %v", err)
		}

		assert.Equal(rt, len(vars), len(result.Old))
		for k, v := range vars {
			assert.Equal(rt, v, result.Old[k])
		}
		if _, err := os.Stat(paths.EnvFile(dir)); !os.IsNotExist(err) {
			rt.Fatalf("variables record still present after deactivation")
		}
	})
}

func TestAtMostOneActiveEnvironment(t *testing.T) {
	envs := map[string]testutil.Env{
		"a": {Vars: map[string]string{"ONLY_A": "1", "SHARED": "a"}},
		"b": {Vars: map[string]string{"ONLY_B": "1", "SHARED": "b"}},
		"c": {Vars: map[string]string{"ONLY_C": "1"}},
	}

	rapid.Check(t, func(rt *rapid.T) {
		sequence := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c"}), 1, 6).Draw(rt, "sequence")

		dir, err := os.MkdirTemp(t.TempDir(), "exclusive")
		if err != nil {
			rt.Fatalf("tempdir: %v", err)
		}
		testutil.WriteEnvironments(t, dir, envs)
		e := newEngine()

		for _, name := range sequence {
			if _, err := e.Activate(dir, name); err != nil {
				rt.Fatalf("activate %s: %v", name, err)
			}
		}

		active, err := e.Status(dir)
		if err != nil {
			rt.Fatalf("status: %v", err)
		}
		last := sequence[len(sequence)-1]
		assert.Equal(rt, envs[last].Vars, active.Variables)
	})
}
