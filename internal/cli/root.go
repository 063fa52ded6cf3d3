package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/gauntlet/internal/config"
	"github.com/dshills/gauntlet/internal/gitctx"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitOutstanding  = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "gauntlet",
	Short: "Multi-agent code review workflow orchestrator",
	Long: "Gauntlet coordinates independent review agents: agents record findings into a\n" +
		"shared manifest store, and the evaluate pass aggregates them, tracks per-agent\n" +
		"completion, batches related findings, and routes the workflow.",
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print gauntlet version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "gauntlet version %s\n", version)
	},
}

// Shared flags
var (
	flagRepoRoot      string
	flagStoreDir      string
	flagMaxIterations int
	flagRepo          string
	flagIssue         int
	flagPR            int
)

func addSharedFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagRepoRoot, "repo-root", "", "Repository root (default: detected via git)")
	cmd.Flags().StringVar(&flagStoreDir, "store-dir", "", "Manifest store directory")
	cmd.Flags().IntVar(&flagMaxIterations, "max-iterations", 0, "Iteration limit before halting for manual intervention")
	cmd.Flags().StringVar(&flagRepo, "repo", "", "GitHub repository (owner/name)")
	cmd.Flags().IntVar(&flagIssue, "issue", 0, "Originating issue number (phase1 target)")
	cmd.Flags().IntVar(&flagPR, "pr", 0, "Pull request number (phase2 target)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagStoreDir != "" {
		m["storeDir"] = flagStoreDir
	}
	if flagMaxIterations > 0 {
		m["maxIterations"] = fmt.Sprintf("%d", flagMaxIterations)
	}
	if flagRepo != "" {
		m["repo"] = flagRepo
	}
	if flagIssue > 0 {
		m["issue"] = fmt.Sprintf("%d", flagIssue)
	}
	if flagPR > 0 {
		m["pr"] = fmt.Sprintf("%d", flagPR)
	}
	return m
}

// resolveRepoRoot prefers the explicit flag and falls back to git discovery.
func resolveRepoRoot() (string, error) {
	if flagRepoRoot != "" {
		return flagRepoRoot, nil
	}
	meta, err := gitctx.GetRepoMeta("")
	if err != nil {
		return "", err
	}
	return meta.Root, nil
}

func loadConfig() (string, config.Config, error) {
	root, err := resolveRepoRoot()
	if err != nil {
		return "", config.Config{}, err
	}
	cfg, err := config.Load(root, buildOverrides())
	if err != nil {
		return "", config.Config{}, err
	}
	return root, cfg, nil
}

func fail(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	exitCode = code
}
