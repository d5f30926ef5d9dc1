// Package ui renders the human facing output of the list and status
// commands, and the top-level error line.
//
// Rich output (pterm) is used only when stdout is a color capable
// terminal and NO_COLOR is unset; otherwise the same content is written
// as plain text. JSON is available for scripting.
package ui
