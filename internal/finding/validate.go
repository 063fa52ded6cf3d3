package finding

import "fmt"

// ValidationError reports a finding that violates a structural invariant.
// The offending field is named so callers can surface it directly.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid finding: %s: %s", e.Field, e.Msg)
}

// Validate checks the structural invariants of a finding. It returns a
// *ValidationError naming the first offending field, or nil.
func Validate(f Finding) error {
	if f.Agent == "" {
		return &ValidationError{Field: "agent", Msg: "must not be empty"}
	}
	if !ValidScope(f.Scope) {
		return &ValidationError{Field: "scope", Msg: fmt.Sprintf("must be %q or %q, got %q", ScopeIn, ScopeOut, f.Scope)}
	}
	if !ValidPriority(f.Priority) {
		return &ValidationError{Field: "priority", Msg: fmt.Sprintf("must be %q or %q, got %q", PriorityHigh, PriorityLow, f.Priority)}
	}
	if f.Title == "" {
		return &ValidationError{Field: "title", Msg: "must not be empty"}
	}
	if f.Description == "" {
		return &ValidationError{Field: "description", Msg: "must not be empty"}
	}
	if f.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Msg: "must be a valid timestamp"}
	}
	return nil
}

// ValidateAll validates every finding in order and returns the first error.
func ValidateAll(findings []Finding) error {
	for i, f := range findings {
		if err := Validate(f); err != nil {
			return fmt.Errorf("finding %d: %w", i, err)
		}
	}
	return nil
}
