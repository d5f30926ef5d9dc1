// Package shell renders activation results as text a POSIX shell can eval.
package shell

import (
	"strings"

	"github.com/arthur-debert/activate/pkg/types"
)

// Render emits `unset NAME` for every key of unset, then `export NAME=VALUE`
// for every key of export, each group sorted by name.
func Render(unset, export map[string]string) string {
	lines := make([]string, 0, len(unset)+len(export))
	for _, name := range types.SortedKeys(unset) {
		lines = append(lines, "unset "+name)
	}
	for _, name := range types.SortedKeys(export) {
		lines = append(lines, "export "+name+"="+Quote(export[name]))
	}
	return strings.Join(lines, "\n")
}

// IsValidName reports whether name can be emitted as a variable name:
// a letter or underscore followed by letters, digits or underscores.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Quote returns value unchanged when the shell would read it literally,
// otherwise wrapped in single quotes.
func Quote(value string) string {
	if value != "" && strings.IndexFunc(value, needsQuoting) < 0 {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("_@%+=:,./-", r):
		return false
	}
	return true
}
