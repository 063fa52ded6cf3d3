// Package completion tracks per-agent review completion under the two-strike
// rule: an agent must report zero outstanding high-priority in-scope findings
// on two consecutive evaluation passes before it is marked complete. A single
// clean pass could be a transient miss from a flaky or partial tool run; two
// in a row is treated as proof. Once complete, an agent stays complete.
package completion
