package cli

import (
	"context"
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dshills/gauntlet/internal/batch"
	"github.com/dshills/gauntlet/internal/completion"
	"github.com/dshills/gauntlet/internal/config"
	"github.com/dshills/gauntlet/internal/finding"
	"github.com/dshills/gauntlet/internal/github"
	"github.com/dshills/gauntlet/internal/manifest"
	"github.com/dshills/gauntlet/internal/output"
	"github.com/dshills/gauntlet/internal/workflow"
)

var (
	flagPhase  string
	flagStep   string
	flagFormat string
	flagOut    string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run one orchestrator pass and route the workflow",
	Long: "Evaluate aggregates the manifest store, applies the two-strike completion\n" +
		"rule, batches in-scope findings by file overlap, and decides whether the\n" +
		"workflow advances, continues for another iteration, or halts.",
	Run: func(cmd *cobra.Command, args []string) {
		runEvaluate()
	},
}

func init() {
	addSharedFlags(evaluateCmd)
	evaluateCmd.Flags().StringVar(&flagPhase, "phase", string(workflow.Phase1), "Workflow phase (phase1, phase2)")
	evaluateCmd.Flags().StringVar(&flagStep, "step", "", "Current workflow step (defaults to the detected step, or \"review\")")
	evaluateCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json)")
	evaluateCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}

func runEvaluate() {
	root, cfg, err := loadConfig()
	if err != nil {
		fail(ExitRuntimeError, "%v", err)
		return
	}

	client, err := github.NewClient(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.MaxRetries)
	if err != nil {
		fail(ExitAuthError, "%v", err)
		return
	}

	ctx := context.Background()
	state, err := detectOrInitState(ctx, client, cfg)
	if err != nil {
		fail(ExitRuntimeError, "%v", err)
		return
	}

	store := manifest.NewStore(cfg.StoreDir)
	aggregates, err := store.ReadAll()
	if err != nil {
		fail(ExitRuntimeError, "%v", err)
		return
	}

	statuses := completion.Evaluate(cfg.Agents, state.Statuses(cfg.Agents),
		completion.OutstandingCounts(aggregates))
	batches := batch.Partition(allFindings(aggregates), batch.Options{RepoRoot: root})

	router := workflow.NewRouter(store, client, workflow.DefaultResolver{})
	transition, err := router.Route(ctx, state, aggregates, statuses)
	if err != nil {
		if errors.As(err, new(*finding.ValidationError)) {
			fail(ExitUsageError, "%v", err)
		} else {
			fail(ExitRuntimeError, "%v", err)
		}
		return
	}

	eval := workflow.BuildEvaluation(state, aggregates, statuses, batches, &transition)
	if err := output.WriteEvaluation(eval, flagFormat, flagOut); err != nil {
		fail(ExitRuntimeError, "writing output: %v", err)
		return
	}
	if transition.Kind != workflow.TransitionAdvance {
		exitCode = ExitOutstanding
	}
}

// detectOrInitState reads the authoritative state from the active target, or
// builds the initial state when no state comment exists yet.
func detectOrInitState(ctx context.Context, client *github.Client, cfg config.Config) (workflow.State, error) {
	phase := workflow.Phase(flagPhase)
	number := cfg.GitHub.Issue
	if phase == workflow.Phase2 {
		number = cfg.GitHub.PR
	}

	var state workflow.State
	if number > 0 {
		detected, ok, err := client.DetectState(ctx, number)
		if err != nil {
			return workflow.State{}, err
		}
		if ok {
			state = detected
		}
	}
	return resolveState(state, phase, flagStep, cfg), nil
}

// resolveState merges the detected state with the pass inputs. Config always
// wins for the target numbers and the iteration limit; the step flag overrides
// the detected step only when explicitly set, and a fresh workflow starts at
// iteration 1 on the "review" step.
func resolveState(state workflow.State, phase workflow.Phase, step string, cfg config.Config) workflow.State {
	if state.Iteration == 0 {
		state = workflow.State{
			Phase:       phase,
			Iteration:   1,
			CurrentStep: "review",
		}
	}
	state.Phase = phase
	if step != "" {
		state.CurrentStep = step
	}
	state.MaxIterations = cfg.MaxIterations
	state.IssueNumber = cfg.GitHub.Issue
	state.PRNumber = cfg.GitHub.PR
	return state
}

// allFindings flattens the aggregates in deterministic key order so batching
// output is stable across passes.
func allFindings(aggregates map[manifest.Key]*manifest.Aggregate) []finding.Finding {
	keys := make([]manifest.Key, 0, len(aggregates))
	for key := range aggregates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Agent != keys[j].Agent {
			return keys[i].Agent < keys[j].Agent
		}
		return keys[i].Scope < keys[j].Scope
	})

	var all []finding.Finding
	for _, key := range keys {
		all = append(all, aggregates[key].Findings...)
	}
	return all
}
