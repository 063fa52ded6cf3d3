// Package output renders the result of an orchestrator pass. The json writer
// emits the full evaluation document for CI consumption; the text writer
// prints a colorized summary for humans.
package output
