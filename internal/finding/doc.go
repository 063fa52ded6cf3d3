// Package finding defines the issue record produced by review agents.
//
// A Finding is write-once: agents create it, the manifest store persists it,
// and nothing downstream ever mutates it. Validate checks the structural
// invariants (required fields, enumerated scope and priority, a real
// timestamp) and is applied both before a finding is written and after one is
// parsed back from disk.
package finding
