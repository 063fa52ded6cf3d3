package batch

import (
	"path"
	"strings"
)

// NormalizePath collapses absolute, relative, and dot-relative references to
// the same file into one repository-relative key: separators become '/',
// leading "./" segments are stripped, and a path rooted under repoRoot loses
// the root prefix. Paths outside repoRoot are left relative as given.
func NormalizePath(p, repoRoot string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean(p)
	if p == "." || p == "/" {
		return ""
	}
	if repoRoot != "" {
		root := path.Clean(strings.ReplaceAll(repoRoot, "\\", "/"))
		if p == root {
			return ""
		}
		if strings.HasPrefix(p, root+"/") {
			p = p[len(root)+1:]
		}
	}
	return strings.TrimPrefix(p, "/")
}

func normalizeAll(paths []string, repoRoot string) []string {
	var out []string
	for _, p := range paths {
		if n := NormalizePath(p, repoRoot); n != "" {
			out = append(out, n)
		}
	}
	return out
}
