package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GitHubConfig names the repository and the persistence targets.
type GitHubConfig struct {
	Owner string `yaml:"owner,omitempty"`
	Repo  string `yaml:"repo,omitempty"`
	Issue int    `yaml:"issue,omitempty"`
	PR    int    `yaml:"pr,omitempty"`
}

// Config holds the workflow settings.
type Config struct {
	Agents        []string     `yaml:"agents"`
	StoreDir      string       `yaml:"store_dir"`
	MaxIterations int          `yaml:"max_iterations"`
	MaxRetries    int          `yaml:"max_retries"`
	GitHub        GitHubConfig `yaml:"github,omitempty"`
}

// Default returns a Config with all defaults applied. StoreDir is relative to
// the repository root until the CLI resolves it.
func Default() Config {
	return Config{
		Agents: []string{
			"code-reviewer",
			"security-reviewer",
			"performance-reviewer",
			"test-reviewer",
		},
		StoreDir:      filepath.Join(".gauntlet", "manifest"),
		MaxIterations: 5,
		MaxRetries:    3,
	}
}

// Path returns the config file location for a repository root.
func Path(root string) string {
	return filepath.Join(root, ".gauntlet", "config.yaml")
}

// LoadFile reads the config file under root. A missing file returns a zero
// Config and nil error.
func LoadFile(root string) (Config, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config file under root, creating the directory if needed.
func Save(root string, cfg Config) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <-
// overrides. The overrides map comes from CLI flags; only non-zero values
// should be set.
func Load(root string, overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile(root)
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	if !filepath.IsAbs(cfg.StoreDir) {
		cfg.StoreDir = filepath.Join(root, cfg.StoreDir)
	}
	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if len(src.Agents) > 0 {
		dst.Agents = src.Agents
	}
	if src.StoreDir != "" {
		dst.StoreDir = src.StoreDir
	}
	if src.MaxIterations > 0 {
		dst.MaxIterations = src.MaxIterations
	}
	if src.MaxRetries > 0 {
		dst.MaxRetries = src.MaxRetries
	}
	if src.GitHub.Owner != "" {
		dst.GitHub.Owner = src.GitHub.Owner
	}
	if src.GitHub.Repo != "" {
		dst.GitHub.Repo = src.GitHub.Repo
	}
	if src.GitHub.Issue > 0 {
		dst.GitHub.Issue = src.GitHub.Issue
	}
	if src.GitHub.PR > 0 {
		dst.GitHub.PR = src.GitHub.PR
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("GAUNTLET_STORE_DIR"); v != "" {
		cfg.StoreDir = v
	}
	if v := os.Getenv("GAUNTLET_MAX_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxIterations = n
		}
	}
	if v := os.Getenv("GAUNTLET_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxRetries = n
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["storeDir"]; ok && v != "" {
		cfg.StoreDir = v
	}
	if v, ok := overrides["maxIterations"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxIterations = n
		}
	}
	if v, ok := overrides["issue"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GitHub.Issue = n
		}
	}
	if v, ok := overrides["pr"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.GitHub.PR = n
		}
	}
	if v, ok := overrides["repo"]; ok && v != "" {
		// owner/name form
		if owner, name, found := cutSlash(v); found {
			cfg.GitHub.Owner = owner
			cfg.GitHub.Repo = name
		}
	}
}

func cutSlash(s string) (string, string, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i+1:], i > 0 && i < len(s)-1
		}
	}
	return "", "", false
}

// SetField sets a single config field by key name. Returns an error if the
// key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "store_dir":
		cfg.StoreDir = value
	case "max_iterations":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_iterations must be an integer: %w", err)
		}
		cfg.MaxIterations = n
	case "max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_retries must be an integer: %w", err)
		}
		cfg.MaxRetries = n
	case "github.owner":
		cfg.GitHub.Owner = value
	case "github.repo":
		cfg.GitHub.Repo = value
	case "github.issue":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("github.issue must be an integer: %w", err)
		}
		cfg.GitHub.Issue = n
	case "github.pr":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("github.pr must be an integer: %w", err)
		}
		cfg.GitHub.PR = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
