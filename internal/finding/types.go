package finding

import (
	"time"
)

// Scope indicates whether a finding is part of the work currently being
// validated.
type Scope string

const (
	ScopeIn  Scope = "in-scope"
	ScopeOut Scope = "out-of-scope"
)

// ValidScope returns true if s is one of the enumerated scope values.
func ValidScope(s Scope) bool {
	return s == ScopeIn || s == ScopeOut
}

// Priority represents the priority level of a finding.
type Priority string

const (
	PriorityHigh Priority = "high"
	PriorityLow  Priority = "low"
)

// ValidPriority returns true if p is one of the enumerated priority values.
func ValidPriority(p Priority) bool {
	return p == PriorityHigh || p == PriorityLow
}

// ExistingTodo records whether the reported problem already carries a TODO
// marker in the code, and the tracking reference if one exists.
type ExistingTodo struct {
	HasMarker         bool   `json:"hasMarker"`
	TrackingReference string `json:"trackingReference,omitempty"`
}

// Finding is a single issue reported by a review agent. It is immutable once
// written to the manifest store.
type Finding struct {
	Agent        string         `json:"agent"`
	Scope        Scope          `json:"scope"`
	Priority     Priority       `json:"priority"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Location     string         `json:"location,omitempty"`
	ExistingTodo *ExistingTodo  `json:"existingTodo,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	FilesToEdit  []string       `json:"filesToEdit,omitempty"`
	NotFixed     bool           `json:"notFixed,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Outstanding reports whether f counts as outstanding work: in-scope, high
// priority, and not flagged notFixed. Findings flagged notFixed stay visible
// in aggregates but do not block the workflow.
func (f Finding) Outstanding() bool {
	return f.Scope == ScopeIn && f.Priority == PriorityHigh && !f.NotFixed
}

// CountOutstanding returns the number of findings that represent outstanding
// work.
func CountOutstanding(findings []Finding) int {
	var n int
	for _, f := range findings {
		if f.Outstanding() {
			n++
		}
	}
	return n
}
