package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/gauntlet/internal/manifest"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every manifest unit in the store",
	Long: "Cleanup disposes of the manifest store. It is idempotent and best-effort:\n" +
		"individual failures are logged and the remaining units are still removed.",
	Run: func(cmd *cobra.Command, args []string) {
		runCleanup()
	},
}

func init() {
	addSharedFlags(cleanupCmd)
}

func runCleanup() {
	_, cfg, err := loadConfig()
	if err != nil {
		fail(ExitRuntimeError, "%v", err)
		return
	}

	store := manifest.NewStore(cfg.StoreDir)
	before, err := store.Count()
	if err != nil {
		fail(ExitRuntimeError, "%v", err)
		return
	}
	if err := store.CleanupAll(); err != nil {
		fail(ExitRuntimeError, "%v", err)
		return
	}
	fmt.Fprintf(os.Stdout, "removed %d manifest unit(s)\n", before)
}
