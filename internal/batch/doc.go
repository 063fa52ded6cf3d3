// Package batch groups in-scope findings whose target files transitively
// overlap, so related findings can be remediated together.
//
// Grouping runs union-find over normalized file paths: two findings join one
// batch when any of their filesToEdit entries collapse to the same
// repository-relative key, directly or through a chain of shared files.
// Findings with no files form singleton batches, and out-of-scope findings
// bypass batching entirely.
//
// The partition is deterministic: the same input always produces identical
// output, and reordering the input never changes which findings share a
// batch.
package batch
