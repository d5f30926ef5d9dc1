package types

import "io/fs"

// FS defines the filesystem operations the engine needs.
// Everything that touches disk goes through it so tests can swap in
// a recording or failing implementation.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	// AppendFile appends data to name, creating it with perm if needed.
	AppendFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Lstat(name string) (fs.FileInfo, error)

	// Other operations
	Remove(name string) error
}
