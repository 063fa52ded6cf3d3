package completion

import (
	"github.com/dshills/gauntlet/internal/finding"
	"github.com/dshills/gauntlet/internal/manifest"
)

// Status is an agent's completion state.
type Status string

const (
	// StatusActive means the agent still has, or recently had, outstanding
	// findings.
	StatusActive Status = "active"
	// StatusPending means the agent's last pass was clean; one more clean
	// pass completes it.
	StatusPending Status = "pending"
	// StatusComplete is terminal. No subsequent input changes it.
	StatusComplete Status = "complete"
)

// Next returns the status after one evaluation pass that observed the given
// outstanding count for the agent.
func Next(prior Status, outstanding int) Status {
	if prior == StatusComplete {
		return StatusComplete
	}
	if outstanding > 0 {
		return StatusActive
	}
	switch prior {
	case StatusPending:
		return StatusComplete
	default:
		return StatusPending
	}
}

// Evaluate applies the two-strike rule to every known agent. An agent with no
// in-scope aggregate on this pass counts as zero outstanding. Agents absent
// from prior are treated as active.
func Evaluate(agents []string, prior map[string]Status, counts map[string]int) map[string]Status {
	next := make(map[string]Status, len(agents))
	for _, agent := range agents {
		p, ok := prior[agent]
		if !ok {
			p = StatusActive
		}
		next[agent] = Next(p, counts[agent])
	}
	return next
}

// OutstandingCounts derives the per-agent outstanding count from a read pass:
// in-scope, high-priority findings not flagged notFixed. Out-of-scope
// aggregates never contribute.
func OutstandingCounts(aggregates map[manifest.Key]*manifest.Aggregate) map[string]int {
	counts := make(map[string]int)
	for key, agg := range aggregates {
		if key.Scope != finding.ScopeIn {
			continue
		}
		counts[key.Agent] += finding.CountOutstanding(agg.Findings)
	}
	return counts
}
