// Package discovery finds the directories of a tree that declare
// environments, that is, that contain an activate.toml.
//
// The walk never follows symlinked directories, never descends into
// .activate or .git, and tolerates entries that disappear while it runs,
// since activations of already found directories may be creating and
// removing links in the same tree.
package discovery
