// Package state persists what is currently active in a directory.
//
// Two independent records live under .activate/state:
//
//	env.json    active variables, a JSON object (an empty file means none)
//	links.toml  active links, one `"source" = "target"` line per created link
//
// The links record is appended one line at a time, right after each link
// is created, so a crash mid-activation never leaves an untracked link.
package state
