package workflow

import (
	"fmt"
	"sort"

	"github.com/dshills/gauntlet/internal/completion"
	"github.com/dshills/gauntlet/internal/finding"
)

// Phase identifies the workflow stage. Phase 1 runs before a pull request
// exists and persists state to the originating issue; phase 2 persists to the
// pull request.
type Phase string

const (
	Phase1 Phase = "phase1"
	Phase2 Phase = "phase2"
)

// TargetKind names the external entity state is persisted to.
type TargetKind string

const (
	TargetIssue TargetKind = "issue"
	TargetPR    TargetKind = "pr"
)

// State is the workflow state round-tripped through the external persistence
// collaborator. It is passed by value; the router never mutates its input.
type State struct {
	Phase                   Phase    `json:"phase"`
	Iteration               int      `json:"iteration"`
	CurrentStep             string   `json:"currentStep"`
	CompletedSteps          []string `json:"completedSteps,omitempty"`
	MaxIterations           int      `json:"maxIterations"`
	PendingCompletionAgents []string `json:"pendingCompletionAgents,omitempty"`
	CompletedAgents         []string `json:"completedAgents,omitempty"`
	IssueNumber             int      `json:"issueNumber,omitempty"`
	PRNumber                int      `json:"prNumber,omitempty"`
}

// Target resolves the persistence target for the active phase. A missing
// identifier is a validation fault, never a guess.
func (s State) Target() (TargetKind, int, error) {
	switch s.Phase {
	case Phase1:
		if s.IssueNumber == 0 {
			return "", 0, &finding.ValidationError{Field: "issueNumber", Msg: "required in phase1"}
		}
		return TargetIssue, s.IssueNumber, nil
	case Phase2:
		if s.PRNumber == 0 {
			return "", 0, &finding.ValidationError{Field: "prNumber", Msg: "required in phase2"}
		}
		return TargetPR, s.PRNumber, nil
	default:
		return "", 0, &finding.ValidationError{Field: "phase", Msg: fmt.Sprintf("must be %q or %q, got %q", Phase1, Phase2, s.Phase)}
	}
}

// Statuses reconstructs per-agent completion statuses from the state's agent
// arrays. An agent in neither array is active.
func (s State) Statuses(agents []string) map[string]completion.Status {
	statuses := make(map[string]completion.Status, len(agents))
	for _, a := range agents {
		statuses[a] = completion.StatusActive
	}
	for _, a := range s.PendingCompletionAgents {
		statuses[a] = completion.StatusPending
	}
	for _, a := range s.CompletedAgents {
		statuses[a] = completion.StatusComplete
	}
	return statuses
}

// withStatuses returns a copy of s whose agent arrays mirror the tracker
// output. Arrays are sorted so persisted state is deterministic.
func (s State) withStatuses(statuses map[string]completion.Status) State {
	var pending, complete []string
	for agent, status := range statuses {
		switch status {
		case completion.StatusPending:
			pending = append(pending, agent)
		case completion.StatusComplete:
			complete = append(complete, agent)
		}
	}
	sort.Strings(pending)
	sort.Strings(complete)
	s.PendingCompletionAgents = pending
	s.CompletedAgents = complete
	return s
}

// markStepComplete returns a copy of s with the current step appended to
// completedSteps if it is not already recorded.
func (s State) markStepComplete() State {
	for _, step := range s.CompletedSteps {
		if step == s.CurrentStep {
			return s
		}
	}
	steps := make([]string, len(s.CompletedSteps), len(s.CompletedSteps)+1)
	copy(steps, s.CompletedSteps)
	s.CompletedSteps = append(steps, s.CurrentStep)
	return s
}
