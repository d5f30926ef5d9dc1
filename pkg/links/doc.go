// Package links creates and removes the symlinks declared by an
// environment.
//
// Declarations map a source path to a target path, both relative to the
// directory holding activate.toml. The symlink is created at the target
// and stores a relative path back to the source, so a tree keeps working
// when it is moved as a whole.
//
// The manager never overwrites anything: an existing file, directory or
// link at the target is an error, and on removal only symbolic links are
// deleted. A real file found where a link was recorded is reported and
// left alone.
package links
