package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dshills/gauntlet/internal/completion"
	"github.com/dshills/gauntlet/internal/finding"
	"github.com/dshills/gauntlet/internal/workflow"
)

// TextWriter outputs a human-readable, colorized evaluation summary.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, eval *workflow.Evaluation) error {
	ew := &errWriter{w: w}

	ew.printf("Gauntlet Review: %s, step %q, iteration %d\n", eval.Phase, eval.Step, eval.Iteration)
	ew.println(strings.Repeat("─", 60))

	if len(eval.Agents) > 0 {
		ew.println("Agents:")
		for _, a := range eval.Agents {
			if a.Scope == finding.ScopeOut {
				ew.printf("  %-24s %-13s %d finding(s), %d high\n",
					a.Agent, "out-of-scope", a.Findings, a.HighPriority)
				continue
			}
			ew.printf("  %s %-24s %-9s %d finding(s), %d high, %d outstanding\n",
				statusIcon(a.Status), a.Agent, a.Status, a.Findings, a.HighPriority, a.Outstanding)
		}
	}

	if len(eval.Batches.Batches) > 0 {
		ew.printf("\nBatches (%d):\n", len(eval.Batches.Batches))
		for _, b := range eval.Batches.Batches {
			ew.printf("  #%d: %d finding(s)", b.ID, len(b.Findings))
			if len(b.Files) > 0 {
				ew.printf(" across %s", strings.Join(b.Files, ", "))
			}
			ew.println("")
		}
	}
	if n := len(eval.Batches.OutOfScope); n > 0 {
		ew.printf("\nOut-of-scope findings reported individually: %d\n", n)
	}

	ew.println(strings.Repeat("─", 60))
	if eval.Outstanding == 0 {
		ew.printf("Outstanding: %s\n", color.New(color.FgGreen).Sprint("0"))
	} else {
		ew.printf("Outstanding: %s\n", color.New(color.FgRed).Sprintf("%d", eval.Outstanding))
	}

	if tr := eval.Transition; tr != nil {
		switch tr.Kind {
		case workflow.TransitionAdvance:
			ew.printf("Decision: %s, step %q complete\n",
				color.New(color.FgGreen).Sprint("ADVANCE"), tr.State.CurrentStep)
		case workflow.TransitionContinue:
			ew.printf("Decision: %s, iteration %d of %d\n",
				color.New(color.FgYellow).Sprint("CONTINUE"), tr.State.Iteration, tr.State.MaxIterations)
		case workflow.TransitionHalt:
			ew.printf("Decision: %s: %s\n",
				color.New(color.FgRed).Sprint("HALT"), tr.Reason)
		}
		if tr.Instructions != "" {
			ew.printf("Next: %s\n", tr.Instructions)
		}
	}
	return ew.err
}

func statusIcon(s completion.Status) string {
	switch s {
	case completion.StatusComplete:
		return color.New(color.FgGreen).Sprint("✓")
	case completion.StatusPending:
		return color.New(color.FgYellow).Sprint("!")
	default:
		return color.New(color.FgRed).Sprint("•")
	}
}

// errWriter accumulates the first write error so the happy path stays flat.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
