// Package workflow drives the review loop: it holds the externally persisted
// workflow state, decides after each evaluation pass whether the workflow
// advances to its next step, loops for another iteration, or halts at the
// iteration limit, and performs the two-sided record-and-notify operation for
// new findings.
//
// The router's two branches differ in side-effect ordering. On the fast path
// (no outstanding work) the manifest store is cleaned up before the new state
// is persisted, so a failed cleanup leaves the findings available for a
// retry. On the slow path the incremented state is persisted first; a cleanup
// failure afterwards is only a warning, because the authoritative record is
// already durable.
//
// Remote persistence, state detection, and next-step resolution are injected
// collaborators, so the state machine is testable without a network.
package workflow
