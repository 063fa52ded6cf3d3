package gitctx

import (
	"fmt"
	"os/exec"
	"strings"
)

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Branch string
}

// GetRepoMeta collects repository metadata from git, rooted at dir. An empty
// dir uses the process working directory (the CLI passes it explicitly).
func GetRepoMeta(dir string) (RepoMeta, error) {
	root, err := gitOutput(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}
	branch, err := gitOutput(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = "" // new repo with no commits
	}
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Branch: strings.TrimSpace(branch),
	}, nil
}

func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}
