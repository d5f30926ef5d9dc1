// Package paths describes where activate keeps things on disk.
//
// Every directory managed by activate has the same layout:
//
//	activate.toml                declarations
//	.activate/state/env.json     variables applied by the last activation
//	.activate/state/links.toml   symlinks created by the last activation
//	.activate/.env, env.json, configmap.yaml   consolidated artifacts
//
// The package also validates the relative paths used in link
// declarations and answers ancestor/descendant questions for the
// hierarchy aggregator.
package paths
