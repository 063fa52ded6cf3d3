package workflow

import (
	"fmt"
	"sort"

	"github.com/dshills/gauntlet/internal/batch"
	"github.com/dshills/gauntlet/internal/completion"
	"github.com/dshills/gauntlet/internal/finding"
	"github.com/dshills/gauntlet/internal/manifest"
)

// AgentReport summarizes one (agent, scope) aggregate for output.
type AgentReport struct {
	Agent        string            `json:"agent"`
	Scope        finding.Scope     `json:"scope"`
	Findings     int               `json:"findings"`
	HighPriority int               `json:"highPriority"`
	Outstanding  int               `json:"outstanding"`
	Status       completion.Status `json:"status,omitempty"`
}

// Evaluation is the full result document for one orchestrator pass, suitable
// for the text and json writers.
type Evaluation struct {
	Phase       Phase         `json:"phase"`
	Iteration   int           `json:"iteration"`
	Step        string        `json:"step"`
	Outstanding int           `json:"outstanding"`
	Agents      []AgentReport `json:"agents"`
	Batches     batch.Result  `json:"batches"`
	Transition  *Transition   `json:"transition,omitempty"`
}

// BuildEvaluation assembles the result document from the pieces of a pass.
// The transition may be nil for read-only passes (status inspection).
func BuildEvaluation(state State, aggregates map[manifest.Key]*manifest.Aggregate, statuses map[string]completion.Status, batches batch.Result, transition *Transition) *Evaluation {
	eval := &Evaluation{
		Phase:       state.Phase,
		Iteration:   state.Iteration,
		Step:        state.CurrentStep,
		Outstanding: totalOutstanding(aggregates),
		Batches:     batches,
		Transition:  transition,
	}

	for _, agg := range aggregates {
		report := AgentReport{
			Agent:        agg.Agent,
			Scope:        agg.Scope,
			Findings:     len(agg.Findings),
			HighPriority: agg.HighPriorityCount,
		}
		if agg.Scope == finding.ScopeIn {
			report.Outstanding = finding.CountOutstanding(agg.Findings)
			report.Status = statuses[agg.Agent]
		}
		eval.Agents = append(eval.Agents, report)
	}
	// Known agents with no aggregate this pass still appear, so the report
	// shows their completion progress.
	seen := make(map[string]bool)
	for _, a := range eval.Agents {
		if a.Scope == finding.ScopeIn {
			seen[a.Agent] = true
		}
	}
	for agent, status := range statuses {
		if !seen[agent] {
			eval.Agents = append(eval.Agents, AgentReport{
				Agent:  agent,
				Scope:  finding.ScopeIn,
				Status: status,
			})
		}
	}

	sort.Slice(eval.Agents, func(i, j int) bool {
		if eval.Agents[i].Agent != eval.Agents[j].Agent {
			return eval.Agents[i].Agent < eval.Agents[j].Agent
		}
		return eval.Agents[i].Scope < eval.Agents[j].Scope
	})
	return eval
}

// DefaultResolver produces next-step instructions from the committed state
// alone. It satisfies Resolver for callers that do not plug in an external
// resolver.
type DefaultResolver struct{}

// Resolve returns the instruction text for the given state.
func (DefaultResolver) Resolve(state State) (string, error) {
	for _, step := range state.CompletedSteps {
		if step == state.CurrentStep {
			return fmt.Sprintf("step %q is complete; proceed to the next workflow step", state.CurrentStep), nil
		}
	}
	return fmt.Sprintf("re-run review agents for iteration %d of %d on step %q",
		state.Iteration, state.MaxIterations, state.CurrentStep), nil
}
