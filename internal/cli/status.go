package cli

import (
	"github.com/spf13/cobra"

	"github.com/dshills/gauntlet/internal/batch"
	"github.com/dshills/gauntlet/internal/manifest"
	"github.com/dshills/gauntlet/internal/output"
	"github.com/dshills/gauntlet/internal/workflow"
)

var (
	flagStatusFormat string
	flagStatusOut    string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current manifest store contents without routing",
	Long: "Status is a read-only pass: it aggregates the store, batches in-scope\n" +
		"findings, and prints the summary. No state is persisted and nothing is\n" +
		"cleaned up.",
	Run: func(cmd *cobra.Command, args []string) {
		runStatus()
	},
}

func init() {
	addSharedFlags(statusCmd)
	statusCmd.Flags().StringVar(&flagStatusFormat, "format", "text", "Output format (text, json)")
	statusCmd.Flags().StringVar(&flagStatusOut, "out", "", "Output file path (default: stdout)")
}

func runStatus() {
	root, cfg, err := loadConfig()
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
	batches := batch.Partition(allFindings(aggregates), batch.Options{RepoRoot: root})

	eval := workflow.BuildEvaluation(workflow.State{}, aggregates, nil, batches, nil)
	if err := output.WriteEvaluation(eval, flagStatusFormat, flagStatusOut); err != nil {
		fail(ExitRuntimeError, "writing output: %v", err)
	}
}
