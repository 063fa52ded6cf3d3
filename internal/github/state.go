package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/gauntlet/internal/finding"
	"github.com/dshills/gauntlet/internal/workflow"
)

const stateMarker = "<!-- gauntlet:state -->"

// Persist posts a human-readable note with the machine state embedded, so
// the state round-trips through the comment. Satisfies workflow.Persister.
func (c *Client) Persist(ctx context.Context, kind workflow.TargetKind, number int, state workflow.State, title, body string) error {
	block, err := EncodeState(state)
	if err != nil {
		return err
	}
	full := fmt.Sprintf("## %s\n\n%s\n\n%s", title, body, block)
	if err := c.PostComment(ctx, number, full); err != nil {
		return fmt.Errorf("persisting state to %s #%d: %w", kind, number, err)
	}
	return nil
}

// DetectState recovers the authoritative workflow state by scanning the
// target's comments newest-first for a state marker. ok is false when no
// state comment exists yet.
func (c *Client) DetectState(ctx context.Context, number int) (workflow.State, bool, error) {
	comments, err := c.ListComments(ctx, number)
	if err != nil {
		return workflow.State{}, false, fmt.Errorf("detecting workflow state on #%d: %w", number, err)
	}
	for i := len(comments) - 1; i >= 0; i-- {
		if state, ok := ParseState(comments[i].Body); ok {
			return state, true, nil
		}
	}
	return workflow.State{}, false, nil
}

// EncodeState renders the marked, fenced JSON block carrying the state.
func EncodeState(state workflow.State) (string, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding workflow state: %w", err)
	}
	return fmt.Sprintf("%s\n```json\n%s\n```", stateMarker, data), nil
}

// ParseState extracts a workflow state from a comment body. ok is false when
// the body carries no well-formed state block.
func ParseState(body string) (workflow.State, bool) {
	idx := strings.Index(body, stateMarker)
	if idx < 0 {
		return workflow.State{}, false
	}
	rest := body[idx+len(stateMarker):]
	open := strings.Index(rest, "```json\n")
	if open < 0 {
		return workflow.State{}, false
	}
	rest = rest[open+len("```json\n"):]
	closing := strings.Index(rest, "```")
	if closing < 0 {
		return workflow.State{}, false
	}
	var state workflow.State
	if err := json.Unmarshal([]byte(rest[:closing]), &state); err != nil {
		return workflow.State{}, false
	}
	return state, true
}

// FindingNotifier posts a short comment for each newly recorded finding.
// Satisfies workflow.Notifier.
type FindingNotifier struct {
	Client *Client
	Number int
}

// Notify posts the finding note to the configured issue or pull request.
func (n *FindingNotifier) Notify(ctx context.Context, f finding.Finding) error {
	var b strings.Builder
	fmt.Fprintf(&b, "**[%s/%s]** %s: %s\n\n%s\n", f.Agent, f.Priority, f.Scope, f.Title, f.Description)
	if f.Location != "" {
		fmt.Fprintf(&b, "\nLocation: `%s`\n", f.Location)
	}
	if len(f.FilesToEdit) > 0 {
		fmt.Fprintf(&b, "Files: `%s`\n", strings.Join(f.FilesToEdit, "`, `"))
	}
	if err := n.Client.PostComment(ctx, n.Number, b.String()); err != nil {
		return fmt.Errorf("notifying finding %q: %w", f.Title, err)
	}
	return nil
}
