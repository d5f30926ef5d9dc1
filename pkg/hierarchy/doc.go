// Package hierarchy folds per-directory activation results into one
// consolidated result per directory.
//
// A directory's consolidated result is its own result merged with the
// results of every directory nested beneath it. Two directories in the same
// subtree exporting the same variable is a collision and fails the whole
// fold rather than letting one value shadow the other. Unset maps merge
// freely since unsetting a name twice is harmless.
package hierarchy
