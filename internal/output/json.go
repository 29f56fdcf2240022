package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/dshills/breakcheck/internal/review"
)

// Report is the JSON document emitted by JSONWriter.
type Report struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
	RunID   string `json:"runId"`
	*review.Result
	Sections []Section `json:"sections,omitempty"`
}

// JSONWriter outputs the full result as JSON, with the analysis also split
// into sections.
type JSONWriter struct {
	Version string
	// NewID overrides run id generation.
	NewID func() string
}

func (j *JSONWriter) Write(w io.Writer, result *review.Result) error {
	newID := j.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	report := Report{
		Tool:    "breakcheck",
		Version: j.Version,
		RunID:   newID(),
		Result:  result,
	}
	if !result.Empty() {
		report.Sections = Sections(result.Analysis, result.Paths())
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}
