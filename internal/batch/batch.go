package batch

import (
	"sort"

	"github.com/dshills/gauntlet/internal/finding"
)

// Options controls batching. RepoRoot is supplied explicitly by the caller;
// path normalization never infers a worktree root from path text.
type Options struct {
	RepoRoot string
}

// Batch is a group of in-scope findings that share at least one transitively
// overlapping file. IDs are assigned in first-discovery order over the input.
type Batch struct {
	ID       int               `json:"id"`
	Files    []string          `json:"files"`
	Findings []finding.Finding `json:"findings"`
}

// Result is the full partition: batches of in-scope findings plus the
// out-of-scope findings, which are never batched and stand alone.
type Result struct {
	Batches    []Batch           `json:"batches"`
	OutOfScope []finding.Finding `json:"outOfScope,omitempty"`
}

// Partition groups findings into batches. The output is byte-identical across
// repeated calls on the same input, and the grouping itself is stable under
// input reordering.
func Partition(findings []finding.Finding, opts Options) Result {
	var result Result
	var inScope []finding.Finding
	for _, f := range findings {
		if f.Scope == finding.ScopeIn {
			inScope = append(inScope, f)
		} else {
			result.OutOfScope = append(result.OutOfScope, f)
		}
	}

	normalized := make([][]string, len(inScope))
	for i, f := range inScope {
		normalized[i] = normalizeAll(f.FilesToEdit, opts.RepoRoot)
	}

	uf := newUnionFind(len(inScope))
	fileOwner := make(map[string]int)
	for i, paths := range normalized {
		for _, p := range paths {
			if owner, ok := fileOwner[p]; ok {
				uf.union(owner, i)
			} else {
				fileOwner[p] = i
			}
		}
	}

	// Assign batch IDs in first-discovery order so repeated runs over the
	// same input produce identical output.
	var order []int
	members := make(map[int][]int)
	for i := range inScope {
		root := uf.find(i)
		if _, seen := members[root]; !seen {
			order = append(order, root)
		}
		members[root] = append(members[root], i)
	}
	for bi, root := range order {
		b := Batch{ID: bi + 1}
		for _, i := range members[root] {
			b.Findings = append(b.Findings, inScope[i])
			b.Files = append(b.Files, normalized[i]...)
		}
		b.Files = dedupeSorted(b.Files)
		result.Batches = append(result.Batches, b)
	}
	return result
}

func dedupeSorted(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	sort.Strings(paths)
	out := paths[:1]
	for _, p := range paths[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// unionFind is a disjoint-set forest with path compression and union by
// size. Compression is an optimization only; the resulting components are
// identical with or without it.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
