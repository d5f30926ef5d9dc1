package activate

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Switch a directory tree between declared environments"
	MsgListShort       = "List the environments declared in a directory"
	MsgStatusShort     = "Show what is active in a directory"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgSnippetShort    = "Print a shell function that applies activations to the current shell"

	// Status messages
	MsgActivated     = "Activated '%s' in %d %s\n"
	MsgDeactivated   = "Deactivated %d %s\n"
	MsgEvalHint      = "Variables are not applied to this shell; use: eval \"$(%s)\"\n"
	MsgVersionFormat = "activate %s (commit %s, built %s)\n"
	MsgDirectory     = "directory"
	MsgDirectories   = "directories"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagEval      = "Print shell commands applying the variable changes"
	MsgFlagRecursive = "Activate every directory below that declares environments"
	MsgFlagDir       = "Directory to operate on"
	MsgFlagFormat    = "Output format: auto, term, text or json"

	// Error messages
	MsgErrLoadSettings = "failed to load settings: %w"
	MsgErrFormat       = "invalid --format: %w"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/snippet-long.txt
	msgSnippetLongRaw string
	MsgSnippetLong    = strings.TrimSpace(msgSnippetLongRaw)
)

func plural(n int) string {
	if n == 1 {
		return MsgDirectory
	}
	return MsgDirectories
}
