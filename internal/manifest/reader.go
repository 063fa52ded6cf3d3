package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/gauntlet/internal/finding"
)

// Key identifies one aggregate: an agent reporting under one scope.
type Key struct {
	Agent string
	Scope finding.Scope
}

// Aggregate is the merged view of every unit an agent wrote under one scope.
// It is derived on every read pass, never persisted. HighPriorityCount counts
// every high-priority finding, including those flagged notFixed; the
// outstanding-work exclusion is a caller-level filter.
type Aggregate struct {
	Agent             string            `json:"agent"`
	Scope             finding.Scope     `json:"scope"`
	Findings          []finding.Finding `json:"findings"`
	HighPriorityCount int               `json:"highPriorityCount"`
}

// ReadAll scans the store and aggregates every valid unit per (agent, scope).
//
// A missing directory contributes zero findings. A unit that cannot be read
// is skipped with a loud warning: the cause is environmental, and a later
// pass can still see it. A unit that reads fine but fails structural
// validation aborts the pass with a StorageError: dropping its findings could
// let the workflow advance past outstanding work.
func (s *Store) ReadAll() (map[Key]*Aggregate, error) {
	aggregates := make(map[Key]*Aggregate)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return aggregates, nil
		}
		return nil, storageErr("scan", s.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isUnitName(entry.Name()) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())

		data, err := os.ReadFile(path)
		if err != nil {
			s.Logf("warning: skipping unreadable manifest unit %s: %v (%s)",
				path, err, classify(err).Guidance())
			continue
		}

		findings, err := parseUnit(data)
		if err != nil {
			return nil, corruptErr("parse", path, err)
		}

		for _, f := range findings {
			key := Key{Agent: f.Agent, Scope: f.Scope}
			agg := aggregates[key]
			if agg == nil {
				agg = &Aggregate{Agent: f.Agent, Scope: f.Scope}
				aggregates[key] = agg
			}
			agg.Findings = append(agg.Findings, f)
			if f.Priority == finding.PriorityHigh {
				agg.HighPriorityCount++
			}
		}
	}
	return aggregates, nil
}

// isUnitName requires both the unit extension and a scope marker. Both
// conditions must hold; a stray .json file in the store directory is not a
// unit, and neither is a scope-marked file with another extension.
func isUnitName(name string) bool {
	if !strings.HasSuffix(name, unitExt) {
		return false
	}
	return strings.Contains(name, "-"+string(finding.ScopeIn)+"-") ||
		strings.Contains(name, "-"+string(finding.ScopeOut)+"-")
}

// parseUnit decodes a unit body as an ordered sequence of findings and
// validates every element. Partial recovery inside one corrupt unit is not
// attempted.
func parseUnit(data []byte) ([]finding.Finding, error) {
	var findings []finding.Finding
	if err := json.Unmarshal(data, &findings); err != nil {
		return nil, fmt.Errorf("not a JSON array of findings: %w", err)
	}
	if len(findings) == 0 {
		return nil, fmt.Errorf("unit contains no findings")
	}
	if err := finding.ValidateAll(findings); err != nil {
		return nil, err
	}
	return findings, nil
}
