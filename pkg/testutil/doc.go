// Package testutil provides utilities for testing activate components.
//
// All helpers operate on the real filesystem below t.TempDir(): the
// engine's guarantees are about symlinks and files on disk, so tests
// exercise exactly that instead of an in-memory stand-in.
//
// Key components:
//   - File helpers: CreateFile, CreateDir, CreateSymlink, ReadFile
//   - Assertions: AssertFileContent, AssertSymlink, AssertNoFile
//   - Config helpers: WriteActivateToml, WriteEnvironments
//
// Each test should be completely isolated with no shared state.
package testutil
