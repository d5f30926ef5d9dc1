// Package types holds the data shared by every layer of activate: the
// filesystem abstraction, environment declarations, the persisted active
// state and the per-directory results produced by the engine.
package types
