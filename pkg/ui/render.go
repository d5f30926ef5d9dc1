package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arthur-debert/activate/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	nameStyle   = pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	dirStyle    = pterm.NewStyle(pterm.Bold)
	keyStyle    = pterm.NewStyle(pterm.FgGreen)
	mutedStyle  = pterm.NewStyle(pterm.FgGray)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	statusLabel = map[bool]string{true: "active", false: "inactive"}
)

// DirectoryStatus is the recorded state of one directory.
type DirectoryStatus struct {
	Dir   string
	State types.ActiveState
}

// RenderList writes the environment names declared in dir.
func RenderList(w io.Writer, format Format, dir string, names []string) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, struct {
			Dir          string   `json:"dir"`
			Environments []string `json:"environments"`
		}{dir, nonNil(names)})
	case FormatTerminal:
		if len(names) == 0 {
			_, err := fmt.Fprintln(w, mutedStyle.Sprint("no environments declared"))
			return err
		}
		for _, name := range names {
			if _, err := fmt.Fprintln(w, "  "+nameStyle.Sprint(name)); err != nil {
				return err
			}
		}
		return nil
	default:
		for _, name := range names {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}
		return nil
	}
}

// RenderStatus writes the recorded variables and links of each directory.
func RenderStatus(w io.Writer, format Format, statuses []DirectoryStatus) error {
	if format == FormatJSON {
		type entry struct {
			Dir       string            `json:"dir"`
			Active    bool              `json:"active"`
			Variables map[string]string `json:"variables"`
			Links     map[string]string `json:"links"`
		}
		entries := make([]entry, 0, len(statuses))
		for _, s := range statuses {
			entries = append(entries, entry{
				Dir:       s.Dir,
				Active:    !s.State.IsEmpty(),
				Variables: nonNilMap(s.State.Variables),
				Links:     nonNilMap(s.State.Links),
			})
		}
		return writeJSON(w, entries)
	}

	styled := format == FormatTerminal
	paint := func(style *pterm.Style, s string) string {
		if styled {
			return style.Sprint(s)
		}
		return s
	}

	for i, s := range statuses {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		label := statusLabel[!s.State.IsEmpty()]
		if _, err := fmt.Fprintf(w, "%s %s\n", paint(dirStyle, s.Dir), paint(mutedStyle, "("+label+")")); err != nil {
			return err
		}
		for _, name := range types.SortedKeys(s.State.Variables) {
			if _, err := fmt.Fprintf(w, "  %s=%s\n", paint(keyStyle, name), s.State.Variables[name]); err != nil {
				return err
			}
		}
		for _, source := range types.SortedKeys(s.State.Links) {
			if _, err := fmt.Fprintf(w, "  %s -> %s\n", paint(keyStyle, s.State.Links[source]), source); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderError formats err as the single line shown before exiting.
func RenderError(err error) string {
	return errorStyle.Render(fmt.Sprintf("Error: %v", err))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
