package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/dshills/gauntlet/internal/finding"
)

func testFinding(agent string, scope finding.Scope, priority finding.Priority) finding.Finding {
	return finding.Finding{
		Agent:       agent,
		Scope:       scope,
		Priority:    priority,
		Title:       "unchecked error return",
		Description: "the error from Close is dropped",
		Location:    "internal/server/server.go:42",
		FilesToEdit: []string{"internal/server/server.go"},
		Timestamp:   time.Now(),
	}
}

func TestStore_WriteCreatesUniqueUnits(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Logf = t.Logf

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		path, err := s.Write(testFinding("code-reviewer", finding.ScopeIn, finding.PriorityHigh))
		if err != nil {
			t.Fatalf("Write error: %v", err)
		}
		if seen[path] {
			t.Fatalf("duplicate unit path: %s", path)
		}
		seen[path] = true
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("unit file missing: %v", err)
		}
	}
	if len(seen) != 50 {
		t.Errorf("expected 50 distinct units, got %d", len(seen))
	}
}

func TestStore_ConcurrentWritesStayUnique(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Logf = t.Logf

	const writers = 8
	const perWriter = 10

	var mu sync.Mutex
	seen := make(map[string]bool)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				path, err := s.Write(testFinding("code-reviewer", finding.ScopeIn, finding.PriorityHigh))
				if err != nil {
					t.Errorf("Write error: %v", err)
					return
				}
				mu.Lock()
				if seen[path] {
					t.Errorf("duplicate unit path: %s", path)
				}
				seen[path] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != writers*perWriter {
		t.Errorf("expected %d distinct units, got %d", writers*perWriter, len(seen))
	}
	if n, err := s.Count(); err != nil || n != writers*perWriter {
		t.Errorf("Count = %d (err %v), want %d", n, err, writers*perWriter)
	}
}

func TestStore_WriteUnitNameFormat(t *testing.T) {
	s := NewStore(t.TempDir())
	path, err := s.Write(testFinding("Code Reviewer!", finding.ScopeIn, finding.PriorityHigh))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	name := filepath.Base(path)
	pattern := regexp.MustCompile(`^code-reviewer--in-scope-\d+-[0-9a-f]{8}\.json$`)
	if !pattern.MatchString(name) {
		t.Errorf("unit name %q does not match expected pattern", name)
	}
}

func TestStore_ReadAllAggregates(t *testing.T) {
	s := NewStore(t.TempDir())
	s.Logf = t.Logf

	// 3 in-scope units for code-reviewer: high, high, low
	for _, p := range []finding.Priority{finding.PriorityHigh, finding.PriorityHigh, finding.PriorityLow} {
		if _, err := s.Write(testFinding("code-reviewer", finding.ScopeIn, p)); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	// 1 out-of-scope unit, high
	if _, err := s.Write(testFinding("code-reviewer", finding.ScopeOut, finding.PriorityHigh)); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	aggs, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %d", len(aggs))
	}

	in := aggs[Key{Agent: "code-reviewer", Scope: finding.ScopeIn}]
	if in == nil {
		t.Fatal("missing in-scope aggregate")
	}
	if len(in.Findings) != 3 {
		t.Errorf("in-scope findings = %d, want 3", len(in.Findings))
	}
	if in.HighPriorityCount != 2 {
		t.Errorf("in-scope high count = %d, want 2", in.HighPriorityCount)
	}

	out := aggs[Key{Agent: "code-reviewer", Scope: finding.ScopeOut}]
	if out == nil {
		t.Fatal("missing out-of-scope aggregate")
	}
	if len(out.Findings) != 1 || out.HighPriorityCount != 1 {
		t.Errorf("out-of-scope aggregate = %d findings / %d high, want 1/1",
			len(out.Findings), out.HighPriorityCount)
	}
}

func TestStore_ReadAllCountsNotFixedAsHigh(t *testing.T) {
	s := NewStore(t.TempDir())
	f := testFinding("code-reviewer", finding.ScopeIn, finding.PriorityHigh)
	f.NotFixed = true
	if _, err := s.Write(f); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	aggs, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	agg := aggs[Key{Agent: "code-reviewer", Scope: finding.ScopeIn}]
	if agg == nil || agg.HighPriorityCount != 1 {
		t.Error("notFixed finding must still count toward the raw high-priority count")
	}
	// The exclusion is the caller's filter, not the reader's.
	if finding.CountOutstanding(agg.Findings) != 0 {
		t.Error("notFixed finding must be excluded from outstanding work")
	}
}

func TestStore_ReadAllMissingDirectory(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))
	aggs, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing directory should not fail: %v", err)
	}
	if len(aggs) != 0 {
		t.Errorf("expected empty aggregates, got %d", len(aggs))
	}
}

func TestStore_ReadAllIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	// Scope marker but wrong extension.
	mustWriteFile(t, filepath.Join(dir, "agent-in-scope-123-deadbeef.txt"), "not a unit")
	// Right extension but no scope marker.
	mustWriteFile(t, filepath.Join(dir, "report.json"), `{"not":"a unit"}`)

	aggs, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(aggs) != 0 {
		t.Errorf("foreign files must not contribute findings, got %d aggregates", len(aggs))
	}
}

func TestStore_ReadAllCorruptUnitAbortsPass(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{"},
		{"not an array", `{"agent":"code-reviewer"}`},
		{"empty array", `[]`},
		{"invalid finding", `[{"agent":"code-reviewer","scope":"in-scope","priority":"urgent","title":"t","description":"d","timestamp":"2026-08-23T10:00:00Z"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s := NewStore(dir)
			mustWriteFile(t, filepath.Join(dir, "agent-in-scope-123-deadbeef.json"), tt.content)

			_, err := s.ReadAll()
			if err == nil {
				t.Fatal("expected ReadAll to fail on a corrupt unit")
			}
			var serr *StorageError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *StorageError, got %T", err)
			}
			if serr.Category != StorageCorrupt {
				t.Errorf("category = %s, want %s", serr.Category, StorageCorrupt)
			}
		})
	}
}

func TestStore_RoundTripPreservesFinding(t *testing.T) {
	s := NewStore(t.TempDir())
	want := testFinding("security-reviewer", finding.ScopeIn, finding.PriorityHigh)
	want.ExistingTodo = &finding.ExistingTodo{HasMarker: true, TrackingReference: "#88"}
	want.Metadata = map[string]any{"rule": "G104"}

	if _, err := s.Write(want); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	aggs, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	agg := aggs[Key{Agent: "security-reviewer", Scope: finding.ScopeIn}]
	if agg == nil || len(agg.Findings) != 1 {
		t.Fatal("expected one finding back")
	}
	got := agg.Findings[0]
	if got.Title != want.Title || got.Location != want.Location {
		t.Errorf("round trip lost fields: got %+v", got)
	}
	if got.ExistingTodo == nil || !got.ExistingTodo.HasMarker || got.ExistingTodo.TrackingReference != "#88" {
		t.Errorf("round trip lost existingTodo: %+v", got.ExistingTodo)
	}
}

func TestStore_CleanupAllIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	for i := 0; i < 3; i++ {
		if _, err := s.Write(testFinding("code-reviewer", finding.ScopeIn, finding.PriorityLow)); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	// A foreign file must survive cleanup.
	foreign := filepath.Join(dir, "keep.txt")
	mustWriteFile(t, foreign, "keep me")

	if err := s.CleanupAll(); err != nil {
		t.Fatalf("CleanupAll error: %v", err)
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("expected 0 units after cleanup, got %d", n)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("cleanup must not touch non-unit files")
	}

	// Second run is a no-op.
	if err := s.CleanupAll(); err != nil {
		t.Fatalf("second CleanupAll error: %v", err)
	}

	// Absent directory is a no-op.
	absent := NewStore(filepath.Join(dir, "never-created"))
	if err := absent.CleanupAll(); err != nil {
		t.Fatalf("CleanupAll on absent directory error: %v", err)
	}
}

func TestSanitizeAgent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"code-reviewer", "code-reviewer"},
		{"Code Reviewer", "code-reviewer"},
		{"agent_01", "agent-01"},
		{"weird/../name", "weird----name"},
	}
	for _, tt := range tests {
		if got := sanitizeAgent(tt.in); got != tt.want {
			t.Errorf("sanitizeAgent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestIsUnitName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"code-reviewer-in-scope-1755900000000-a1b2c3d4.json", true},
		{"code-reviewer-out-of-scope-1755900000000-a1b2c3d4.json", true},
		{"code-reviewer-in-scope-1755900000000-a1b2c3d4.txt", false},
		{"report.json", false},
		{"in-scope.json", false}, // marker requires surrounding separators
	}
	for _, tt := range tests {
		if got := isUnitName(tt.name); got != tt.want {
			t.Errorf("isUnitName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
