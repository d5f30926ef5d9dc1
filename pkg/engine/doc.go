// Package engine switches one directory from its active environment to
// another one, or to none.
//
// A directory is either Inactive (no state directory) or Active (a state
// directory recording one environment). Activating always deactivates
// first, so at most one environment is ever recorded per directory.
// Nothing is rolled back: a failure leaves completed side effects in
// place, and each of them is already recorded so a later deactivation
// can clean them up.
package engine
