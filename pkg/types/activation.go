package types

import "sort"

// Environment is one named declaration from activate.toml.
// Links maps a source path to the target path where the symlink is
// created; both are relative to the directory holding the config file.
type Environment struct {
	Env   map[string]string `toml:"env"`
	Links map[string]string `toml:"links"`
}

// Environments maps environment names to their declarations.
type Environments map[string]Environment

// ActiveState is what was previously applied to a directory.
// A nil map means the corresponding record does not exist on disk.
type ActiveState struct {
	Variables map[string]string
	Links     map[string]string
}

// IsEmpty reports whether nothing is recorded as active.
func (s ActiveState) IsEmpty() bool {
	return len(s.Variables) == 0 && len(s.Links) == 0
}

// DirectoryResult is the outcome of activating or deactivating one directory.
type DirectoryResult struct {
	Dir string
	// Old holds the variables that are no longer active.
	Old map[string]string
	// New holds the variables that became active.
	New map[string]string
}

// ConsolidatedResult is a directory's result folded together with the
// results of every directory nested beneath it.
type ConsolidatedResult struct {
	Dir string
	Old map[string]string
	New map[string]string
	// Sources maps each variable in New to the directory that declared it.
	Sources map[string]string
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
