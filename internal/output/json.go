package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/gauntlet/internal/workflow"
)

// JSONWriter outputs the full evaluation document as JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, eval *workflow.Evaluation) error {
	data, err := json.MarshalIndent(eval, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
