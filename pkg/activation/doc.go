// Package activation runs an activation over one directory or a whole tree.
//
// In recursive mode every directory holding an activate.toml becomes one
// task on a bounded worker pool. Tasks share nothing but a results channel
// drained by a single collector; once every task is done the results are
// folded by the hierarchy aggregator, artifacts are written, and the
// shell emission of the root directories is rendered.
package activation
