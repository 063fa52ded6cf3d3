package workflow

import (
	"context"
	"fmt"
	"os"

	"github.com/dshills/gauntlet/internal/completion"
	"github.com/dshills/gauntlet/internal/finding"
	"github.com/dshills/gauntlet/internal/manifest"
)

// Persister posts a human-readable note carrying the machine state to the
// external issue/PR system.
type Persister interface {
	Persist(ctx context.Context, kind TargetKind, number int, state State, title, body string) error
}

// Resolver returns what the workflow should do next for a committed state.
type Resolver interface {
	Resolve(state State) (string, error)
}

// Cleaner disposes of the manifest store. *manifest.Store satisfies it.
type Cleaner interface {
	CleanupAll() error
}

// TransitionKind classifies a routing decision.
type TransitionKind string

const (
	// TransitionAdvance marks the current step complete and moves on.
	TransitionAdvance TransitionKind = "advance"
	// TransitionContinue keeps the current step for another iteration.
	TransitionContinue TransitionKind = "continue"
	// TransitionHalt stops automated routing; a human must intervene.
	TransitionHalt TransitionKind = "halt"
)

// Transition is the router's decision, carrying the locally computed
// post-transition state and the resolved next-step instructions.
type Transition struct {
	Kind         TransitionKind `json:"kind"`
	State        State          `json:"state"`
	Outstanding  int            `json:"outstanding"`
	Reason       string         `json:"reason,omitempty"`
	Instructions string         `json:"instructions,omitempty"`
}

// Router decides the next workflow transition from an evaluation pass.
type Router struct {
	Store     Cleaner
	Persister Persister
	Resolver  Resolver

	// Logf receives non-fatal warnings (slow-path cleanup failures).
	// Defaults to stderr.
	Logf func(format string, args ...any)
}

// NewRouter wires a router with its collaborators.
func NewRouter(store Cleaner, persister Persister, resolver Resolver) *Router {
	return &Router{
		Store:     store,
		Persister: persister,
		Resolver:  resolver,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},
	}
}

// Route computes the transition for one evaluation pass.
//
// Fast path (no outstanding work): cleanup first, then persist the completed
// step; a cleanup failure aborts before any state mutation is persisted so
// the findings remain available for a retry. Slow path: persist the
// incremented iteration first, then attempt cleanup; at that point the
// persisted state is authoritative and a cleanup failure is only a warning.
//
// Next-step instructions are resolved from the locally computed state, never
// re-fetched: the external system guarantees no read-after-write consistency.
func (r *Router) Route(ctx context.Context, state State, aggregates map[manifest.Key]*manifest.Aggregate, statuses map[string]completion.Status) (Transition, error) {
	kind, number, err := state.Target()
	if err != nil {
		return Transition{}, err
	}

	outstanding := totalOutstanding(aggregates)
	newState := state.withStatuses(statuses)

	if outstanding == 0 {
		newState = newState.markStepComplete()
		if err := r.Store.CleanupAll(); err != nil {
			return Transition{}, fmt.Errorf("fast path: manifest cleanup failed, state not persisted: %w", err)
		}
		title := fmt.Sprintf("Review step %q complete", newState.CurrentStep)
		body := fmt.Sprintf("No outstanding findings after iteration %d.", newState.Iteration)
		if err := r.Persister.Persist(ctx, kind, number, newState, title, body); err != nil {
			return Transition{}, fmt.Errorf("fast path: persisting state: %w", err)
		}
		return r.finish(Transition{
			Kind:        TransitionAdvance,
			State:       newState,
			Outstanding: 0,
		})
	}

	newState.Iteration++
	title := fmt.Sprintf("Review iteration %d", newState.Iteration)
	body := fmt.Sprintf("%d outstanding finding(s); continuing step %q.", outstanding, newState.CurrentStep)
	if err := r.Persister.Persist(ctx, kind, number, newState, title, body); err != nil {
		return Transition{}, fmt.Errorf("slow path: persisting state: %w", err)
	}
	if err := r.Store.CleanupAll(); err != nil {
		r.Logf("warning: manifest cleanup failed after state was persisted: %v", err)
	}
	return r.finish(Transition{
		Kind:        TransitionContinue,
		State:       newState,
		Outstanding: outstanding,
	})
}

// finish applies the iteration limit and resolves next-step instructions.
// Reaching the limit returns a terminal halt regardless of outstanding count.
func (r *Router) finish(t Transition) (Transition, error) {
	if t.State.MaxIterations > 0 && t.State.Iteration >= t.State.MaxIterations {
		t.Kind = TransitionHalt
		t.Reason = fmt.Sprintf("iteration limit reached (%d of %d): manual intervention required",
			t.State.Iteration, t.State.MaxIterations)
		t.Instructions = ""
		return t, nil
	}
	instructions, err := r.Resolver.Resolve(t.State)
	if err != nil {
		return Transition{}, fmt.Errorf("resolving next step: %w", err)
	}
	t.Instructions = instructions
	return t, nil
}

// totalOutstanding sums outstanding work across in-scope aggregates:
// high-priority findings not flagged notFixed. Out-of-scope aggregates are
// ignored entirely.
func totalOutstanding(aggregates map[manifest.Key]*manifest.Aggregate) int {
	var n int
	for key, agg := range aggregates {
		if key.Scope != finding.ScopeIn {
			continue
		}
		n += finding.CountOutstanding(agg.Findings)
	}
	return n
}
