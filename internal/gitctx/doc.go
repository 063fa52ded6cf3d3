// Package gitctx discovers repository metadata by shelling out to git. The
// result is threaded explicitly into the components that need a repository
// root; nothing below the CLI reads ambient process state.
package gitctx
