package workflow

import (
	"testing"
	"time"

	"github.com/dshills/gauntlet/internal/batch"
	"github.com/dshills/gauntlet/internal/completion"
	"github.com/dshills/gauntlet/internal/finding"
	"github.com/dshills/gauntlet/internal/manifest"
)

func TestBuildEvaluation(t *testing.T) {
	aggs := map[manifest.Key]*manifest.Aggregate{
		{Agent: "code-reviewer", Scope: finding.ScopeIn}: {
			Agent: "code-reviewer",
			Scope: finding.ScopeIn,
			Findings: []finding.Finding{
				{Agent: "code-reviewer", Scope: finding.ScopeIn, Priority: finding.PriorityHigh,
					Title: "t", Description: "d", Timestamp: time.Now()},
				{Agent: "code-reviewer", Scope: finding.ScopeIn, Priority: finding.PriorityHigh,
					Title: "t2", Description: "d", NotFixed: true, Timestamp: time.Now()},
			},
			HighPriorityCount: 2,
		},
		{Agent: "code-reviewer", Scope: finding.ScopeOut}: {
			Agent:             "code-reviewer",
			Scope:             finding.ScopeOut,
			Findings:          []finding.Finding{{Agent: "code-reviewer", Scope: finding.ScopeOut}},
			HighPriorityCount: 0,
		},
	}
	statuses := map[string]completion.Status{
		"code-reviewer": completion.StatusActive,
		"test-reviewer": completion.StatusComplete,
	}
	state := State{Phase: Phase1, Iteration: 2, CurrentStep: "review"}

	eval := BuildEvaluation(state, aggs, statuses, batch.Result{}, nil)

	if eval.Outstanding != 1 {
		t.Errorf("outstanding = %d, want 1 (notFixed excluded)", eval.Outstanding)
	}
	if len(eval.Agents) != 3 {
		t.Fatalf("agents = %d, want 3 (in, out, and statusless test-reviewer)", len(eval.Agents))
	}
	// Sorted by agent then scope.
	if eval.Agents[0].Agent != "code-reviewer" || eval.Agents[0].Scope != finding.ScopeIn {
		t.Errorf("first report = %+v", eval.Agents[0])
	}
	if eval.Agents[0].HighPriority != 2 || eval.Agents[0].Outstanding != 1 {
		t.Errorf("in-scope report = %+v", eval.Agents[0])
	}
	if eval.Agents[2].Agent != "test-reviewer" || eval.Agents[2].Status != completion.StatusComplete {
		t.Errorf("agent without aggregate missing from report: %+v", eval.Agents[2])
	}
}
