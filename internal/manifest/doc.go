// Package manifest implements the flat-directory store that review agents
// record findings into.
//
// Each finding is persisted as one uniquely named unit file; the name encodes
// the agent, the scope, a millisecond timestamp, and a random suffix, so
// independent agent processes can write concurrently with no locking. Units
// are never mutated: they are created once, read by aggregation passes, and
// deleted in bulk once the workflow has consumed them.
//
// Reads are tolerant of a store that is in flux or missing entirely, but a
// unit whose content fails structural validation aborts the whole read pass:
// silently dropping findings would let the workflow advance past work that
// should have blocked it.
package manifest
