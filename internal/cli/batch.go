package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/gauntlet/internal/batch"
	"github.com/dshills/gauntlet/internal/manifest"
)

var flagBatchFormat string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Print the batch partition for the current store contents",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch()
	},
}

func init() {
	addSharedFlags(batchCmd)
	batchCmd.Flags().StringVar(&flagBatchFormat, "format", "text", "Output format (text, json)")
}

func runBatch() {
	root, cfg, err := loadConfig()
	if err != nil {
		fail(ExitRuntimeError, "%v", err)
		return
	}

	aggregates, err := manifest.NewStore(cfg.StoreDir).ReadAll()
	if err != nil {
		fail(ExitRuntimeError, "%v", err)
		return
	}
	result := batch.Partition(allFindings(aggregates), batch.Options{RepoRoot: root})

	if flagBatchFormat == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fail(ExitRuntimeError, "marshaling batches: %v", err)
			return
		}
		fmt.Fprintln(os.Stdout, string(data))
		return
	}

	for _, b := range result.Batches {
		fmt.Fprintf(os.Stdout, "batch #%d (%d finding(s))\n", b.ID, len(b.Findings))
		for _, f := range b.Findings {
			fmt.Fprintf(os.Stdout, "  [%s/%s] %s\n", f.Agent, f.Priority, f.Title)
		}
		if len(b.Files) > 0 {
			fmt.Fprintf(os.Stdout, "  files: %s\n", strings.Join(b.Files, ", "))
		}
	}
	for _, f := range result.OutOfScope {
		fmt.Fprintf(os.Stdout, "out-of-scope: [%s/%s] %s\n", f.Agent, f.Priority, f.Title)
	}
}
