package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(cfg.Agents) == 0 {
		t.Error("default agent roster must not be empty")
	}
	if cfg.MaxIterations != 5 {
		t.Errorf("maxIterations = %d, want 5", cfg.MaxIterations)
	}
	want := filepath.Join(root, ".gauntlet", "manifest")
	if cfg.StoreDir != want {
		t.Errorf("storeDir = %s, want %s", cfg.StoreDir, want)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	content := `
agents:
  - code-reviewer
max_iterations: 9
github:
  owner: dshills
  repo: gauntlet
  issue: 42
`
	if err := os.MkdirAll(filepath.Join(root, ".gauntlet"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(root), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(cfg.Agents) != 1 || cfg.Agents[0] != "code-reviewer" {
		t.Errorf("agents = %v", cfg.Agents)
	}
	if cfg.MaxIterations != 9 {
		t.Errorf("maxIterations = %d, want 9", cfg.MaxIterations)
	}
	if cfg.GitHub.Owner != "dshills" || cfg.GitHub.Issue != 42 {
		t.Errorf("github = %+v", cfg.GitHub)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	t.Setenv("GAUNTLET_MAX_ITERATIONS", "2")
	cfg, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.MaxIterations != 2 {
		t.Errorf("maxIterations = %d, want 2 from env", cfg.MaxIterations)
	}
}

func TestLoad_FlagOverridesEverything(t *testing.T) {
	root := t.TempDir()
	t.Setenv("GAUNTLET_MAX_ITERATIONS", "2")
	cfg, err := Load(root, map[string]string{
		"maxIterations": "7",
		"repo":          "dshills/gauntlet",
		"issue":         "12",
	})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.MaxIterations != 7 {
		t.Errorf("maxIterations = %d, want 7 from flag", cfg.MaxIterations)
	}
	if cfg.GitHub.Owner != "dshills" || cfg.GitHub.Repo != "gauntlet" || cfg.GitHub.Issue != 12 {
		t.Errorf("github = %+v", cfg.GitHub)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.GitHub.Owner = "dshills"
	cfg.GitHub.Repo = "gauntlet"
	if err := Save(root, cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	loaded, err := LoadFile(root)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.GitHub.Owner != "dshills" || loaded.MaxIterations != 5 {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestSetField(t *testing.T) {
	cfg := Default()
	if err := SetField(&cfg, "max_iterations", "8"); err != nil {
		t.Fatalf("SetField error: %v", err)
	}
	if cfg.MaxIterations != 8 {
		t.Errorf("maxIterations = %d, want 8", cfg.MaxIterations)
	}
	if err := SetField(&cfg, "github.issue", "nope"); err == nil {
		t.Error("expected error for non-integer issue")
	}
	if err := SetField(&cfg, "bogus", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}
