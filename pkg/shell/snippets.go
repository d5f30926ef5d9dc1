package shell

import (
	"strings"

	"github.com/arthur-debert/activate/pkg/errors"
)

// Shells lists the shells Snippet supports.
var Shells = []string{"bash", "zsh", "sh"}

const posixSnippet = `# activate shell integration
activate() {
    case "$1" in
        list|status|version|completion|snippet|help|-h|--help|--version)
            command activate "$@"
            return $?
            ;;
    esac
    __activate_out="$(command activate --eval "$@")" || return $?
    eval "$__activate_out"
    unset __activate_out
}`

// Snippet returns a function definition for the given shell that runs
// activate and applies its variable changes to the current session.
func Snippet(shell string) (string, error) {
	switch strings.ToLower(shell) {
	case "bash", "zsh", "sh":
		return posixSnippet, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unsupported shell `%s`", shell).
			WithDetail("shell", shell).
			WithDetail("supported", Shells)
	}
}
