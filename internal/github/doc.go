// Package github is the external collaborator that persists workflow state
// and finding notifications as comments on GitHub issues and pull requests.
//
// The machine state rides inside each persisted comment as a marked, fenced
// JSON block, so DetectState can recover the authoritative state at workflow
// start by scanning comments newest-first. Requests retry with bounded
// exponential backoff, but only for retryable failures (rate limiting,
// transient network errors, 5xx); validation-class 4xx responses surface
// immediately.
package github
