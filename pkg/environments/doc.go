// Package environments loads the environment declarations of a directory.
//
// A directory declares its environments in activate.toml, one table per
// environment name:
//
//	[dev]
//	env = { PORT = "8080" }
//	links = { "configs/dev.yaml" = "config.yaml" }
//
// Both env and links are optional. A file may declare no environment at
// all; that only becomes an error when a name is actually selected.
package environments
