// Gauntlet coordinates a multi-agent, multi-iteration code review workflow.
//
// Independent review agents record findings into a shared on-disk manifest
// store; the evaluate pass aggregates them, tracks per-agent completion under
// the two-strike rule, batches related findings by file overlap, and routes
// the workflow: advance to the next step, loop for another iteration, or halt
// for manual intervention at the iteration limit.
//
// Usage:
//
//	gauntlet record --agent code-reviewer --scope in-scope --priority high \
//	    --title "..." --description "..." --files a.go,b.go
//	gauntlet evaluate --phase phase1 --step review   # run one orchestrator pass
//	gauntlet status                                  # inspect the store, read-only
//	gauntlet batch                                   # show the batch partition
//	gauntlet cleanup                                 # dispose of the store
//
// See https://github.com/dshills/gauntlet for full documentation.
package main
