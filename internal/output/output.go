package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/gauntlet/internal/workflow"
)

// Writer writes an evaluation in a specific format.
type Writer interface {
	Write(w io.Writer, eval *workflow.Evaluation) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteEvaluation writes the evaluation to the given path, or stdout when the
// path is empty.
func WriteEvaluation(eval *workflow.Evaluation, format, outPath string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}

	var w io.Writer
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}
	return writer.Write(w, eval)
}
