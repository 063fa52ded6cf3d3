// Package config loads gauntlet's workflow settings.
//
// The effective configuration merges, in order: built-in defaults, the
// repo-local .gauntlet/config.yaml, environment variables, and CLI flag
// overrides. The file lives in the repository rather than the user's home
// directory because the agent roster and iteration budget belong to the
// project under review, not to the operator.
package config
