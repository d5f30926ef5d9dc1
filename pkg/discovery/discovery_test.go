// pkg/discovery/discovery_test.go
// TEST TYPE: Discovery Tests
// DEPENDENCIES: Real filesystem (temp dir)
// PURPOSE: Test finding declaration directories and the skip/ignore rules

package discovery_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/activate/pkg/discovery"
	"github.com/arthur-debert/activate/pkg/errors"
	"github.com/arthur-debert/activate/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declare(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, dir := range dirs {
		testutil.CreateFile(t, root, filepath.Join(dir, "activate.toml"), "")
	}
}

func rel(t *testing.T, root string, dirs []string) []string {
	t.Helper()
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		r, err := filepath.Rel(root, dir)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestFind(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, root string)
		opts  discovery.Options
		want  []string
	}{
		{
			name: "nested",
			setup: func(t *testing.T, root string) {
				declare(t, root, ".", "api", "api/v1", "web")
				testutil.CreateDir(t, root, "empty")
			},
			opts: discovery.DefaultOptions(),
			want: []string{".", "api", "api/v1", "web"},
		},
		{
			name: "hidden skipped",
			setup: func(t *testing.T, root string) {
				declare(t, root, "visible", ".hidden", ".hidden/inner")
			},
			opts: discovery.DefaultOptions(),
			want: []string{"visible"},
		},
		{
			name: "hidden included",
			setup: func(t *testing.T, root string) {
				declare(t, root, "visible", ".hidden")
			},
			opts: discovery.Options{GitIgnore: true},
			want: []string{".hidden", "visible"},
		},
		{
			name: "state and git dirs always skipped",
			setup: func(t *testing.T, root string) {
				declare(t, root, ".", ".activate", ".git")
			},
			opts: discovery.Options{},
			want: []string{"."},
		},
		{
			name: "root gitignore",
			setup: func(t *testing.T, root string) {
				declare(t, root, "kept", "build/out", "node_modules/pkg", "logs")
				testutil.CreateFile(t, root, ".gitignore", "build/\nnode_modules\n# comment\n/logs\n")
			},
			opts: discovery.DefaultOptions(),
			want: []string{"kept"},
		},
		{
			name: "nested gitignore is scoped",
			setup: func(t *testing.T, root string) {
				declare(t, root, "a/tmp", "b/tmp")
				testutil.CreateFile(t, root, "a/.gitignore", "tmp/\n")
			},
			opts: discovery.DefaultOptions(),
			want: []string{"b/tmp"},
		},
		{
			name: "negation",
			setup: func(t *testing.T, root string) {
				declare(t, root, "gen/one", "gen/keep")
				testutil.CreateFile(t, root, ".gitignore", "gen/*\n!gen/keep\n")
			},
			opts: discovery.DefaultOptions(),
			want: []string{"gen/keep"},
		},
		{
			name: "gitignore disabled",
			setup: func(t *testing.T, root string) {
				declare(t, root, "build")
				testutil.CreateFile(t, root, ".gitignore", "build/\n")
			},
			opts: discovery.Options{SkipHidden: true},
			want: []string{"build"},
		},
		{
			name: "extra patterns",
			setup: func(t *testing.T, root string) {
				declare(t, root, "vendor/x", "src")
			},
			opts: discovery.Options{SkipHidden: true, Ignore: []string{"vendor"}},
			want: []string{"src"},
		},
		{
			name: "ignored config file",
			setup: func(t *testing.T, root string) {
				declare(t, root, "a", "b")
				testutil.CreateFile(t, root, ".gitignore", "b/activate.toml\n")
			},
			opts: discovery.DefaultOptions(),
			want: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := testutil.TempDir(t)
			tt.setup(t, root)

			dirs, err := discovery.Find(context.Background(), root, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(t, root, dirs))
		})
	}
}

func TestFind_SymlinkedDirectoryNotFollowed(t *testing.T) {
	testutil.SkipOnWindows(t)
	root := testutil.TempDir(t)
	declare(t, root, "real")
	testutil.CreateSymlink(t, "real", filepath.Join(root, "alias"))

	dirs, err := discovery.Find(context.Background(), root, discovery.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, rel(t, root, dirs))
}

func TestFind_MissingRoot(t *testing.T) {
	root := filepath.Join(testutil.TempDir(t), "missing")

	_, err := discovery.Find(context.Background(), root, discovery.DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestWalk_Cancelled(t *testing.T) {
	root := testutil.TempDir(t)
	declare(t, root, "a", "b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := make(chan string, 10)
	err := discovery.Walk(ctx, root, discovery.DefaultOptions(), out)
	assert.ErrorIs(t, err, context.Canceled)
}
