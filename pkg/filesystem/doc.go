// Package filesystem provides filesystem implementations for activate.
//
// This package contains implementations of the types.FS interface:
// the standard OS filesystem used in production and tests.
package filesystem
