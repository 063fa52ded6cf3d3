package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/gauntlet/internal/config"
	"github.com/dshills/gauntlet/internal/finding"
	"github.com/dshills/gauntlet/internal/github"
	"github.com/dshills/gauntlet/internal/manifest"
	"github.com/dshills/gauntlet/internal/workflow"
)

var (
	flagAgent       string
	flagScope       string
	flagPriority    string
	flagTitle       string
	flagDescription string
	flagLocation    string
	flagFiles       string
	flagNotFixed    bool
	flagMeta        []string
	flagFromStdin   bool
	flagNotify      bool
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one finding into the manifest store",
	Long: "Record persists a single finding as a new manifest unit. With --notify it\n" +
		"also posts a note to the configured issue or pull request; the two sides are\n" +
		"attempted independently and a one-sided failure is reported as partial.",
	Run: func(cmd *cobra.Command, args []string) {
		runRecord()
	},
}

func init() {
	addSharedFlags(recordCmd)
	recordCmd.Flags().StringVar(&flagAgent, "agent", "", "Reporting agent identifier")
	recordCmd.Flags().StringVar(&flagScope, "scope", string(finding.ScopeIn), "Finding scope (in-scope, out-of-scope)")
	recordCmd.Flags().StringVar(&flagPriority, "priority", string(finding.PriorityLow), "Finding priority (high, low)")
	recordCmd.Flags().StringVar(&flagTitle, "title", "", "Finding title")
	recordCmd.Flags().StringVar(&flagDescription, "description", "", "Finding description")
	recordCmd.Flags().StringVar(&flagLocation, "location", "", "Optional file:line reference")
	recordCmd.Flags().StringVar(&flagFiles, "files", "", "Files to edit (comma-separated)")
	recordCmd.Flags().BoolVar(&flagNotFixed, "not-fixed", false, "Exclude from outstanding-work counts")
	recordCmd.Flags().StringArrayVar(&flagMeta, "meta", nil, "Metadata entry (key=value, repeatable)")
	recordCmd.Flags().BoolVar(&flagFromStdin, "stdin", false, "Read the finding as JSON from stdin")
	recordCmd.Flags().BoolVar(&flagNotify, "notify", false, "Also post a note to the configured issue/PR")
}

func runRecord() {
	_, cfg, err := loadConfig()
	if err != nil {
		fail(ExitRuntimeError, "%v", err)
		return
	}

	f, err := buildFinding()
	if err != nil {
		fail(ExitUsageError, "%v", err)
		return
	}
	if !knownAgent(cfg, f.Agent) {
		fail(ExitUsageError, "unknown agent %q (known: %s)", f.Agent, strings.Join(cfg.Agents, ", "))
		return
	}

	recorder := &workflow.Recorder{Store: manifest.NewStore(cfg.StoreDir)}
	if flagNotify {
		notifier, err := buildNotifier(cfg)
		if err != nil {
			fail(ExitAuthError, "%v", err)
			return
		}
		recorder.Notifier = notifier
	}

	result, err := recorder.Record(context.Background(), f)
	switch {
	case err == nil:
		fmt.Fprintf(os.Stdout, "recorded %s\n", result.UnitPath)
	case errors.As(err, new(*finding.ValidationError)):
		fail(ExitUsageError, "%v", err)
	case errors.Is(err, workflow.ErrStoreOnly):
		fmt.Fprintf(os.Stdout, "recorded %s\n", result.UnitPath)
		fail(ExitRuntimeError, "partial: %v", err)
	case errors.Is(err, workflow.ErrNotifyOnly):
		fail(ExitRuntimeError, "partial: %v", err)
	default:
		fail(ExitRuntimeError, "%v", err)
	}
}

func buildFinding() (finding.Finding, error) {
	if flagFromStdin {
		var f finding.Finding
		if err := json.NewDecoder(os.Stdin).Decode(&f); err != nil {
			return finding.Finding{}, fmt.Errorf("parsing finding from stdin: %w", err)
		}
		if f.Timestamp.IsZero() {
			f.Timestamp = time.Now().UTC()
		}
		return f, nil
	}

	meta, err := parseMeta(flagMeta)
	if err != nil {
		return finding.Finding{}, err
	}
	return finding.Finding{
		Agent:       flagAgent,
		Scope:       finding.Scope(flagScope),
		Priority:    finding.Priority(flagPriority),
		Title:       flagTitle,
		Description: flagDescription,
		Location:    flagLocation,
		Metadata:    meta,
		FilesToEdit: splitComma(flagFiles),
		NotFixed:    flagNotFixed,
		Timestamp:   time.Now().UTC(),
	}, nil
}

func buildNotifier(cfg config.Config) (workflow.Notifier, error) {
	client, err := github.NewClient(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	number := cfg.GitHub.PR
	if number == 0 {
		number = cfg.GitHub.Issue
	}
	if number == 0 {
		return nil, fmt.Errorf("--notify requires a configured issue or pr number")
	}
	return &github.FindingNotifier{Client: client, Number: number}, nil
}

func knownAgent(cfg config.Config, agent string) bool {
	for _, a := range cfg.Agents {
		if a == agent {
			return true
		}
	}
	return false
}

func parseMeta(entries []string) (map[string]any, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	meta := make(map[string]any, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --meta entry %q, want key=value", entry)
		}
		meta[key] = value
	}
	return meta, nil
}

func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
