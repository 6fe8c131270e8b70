package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/backlinkscan/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the document written by JSONWriter.
type JSONReport struct {
	RunID           string               `json:"run_id"`
	Backend         model.Backend        `json:"backend"`
	Workers         int                  `json:"workers"`
	Targets         []string             `json:"targets"`
	StartedAt       time.Time            `json:"started_at"`
	FinishedAt      time.Time            `json:"finished_at"`
	DurationSeconds float64              `json:"duration_seconds"`
	Stats           model.RunStats       `json:"stats"`
	Results         []*model.CheckResult `json:"results"`
}

// NewJSONReport builds the JSON document for run.
func NewJSONReport(run *model.Run) *JSONReport {
	return &JSONReport{
		RunID:           run.ID,
		Backend:         run.Backend,
		Workers:         run.Workers,
		Targets:         run.Targets,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		DurationSeconds: run.Duration().Seconds(),
		Stats:           run.Stats,
		Results:         run.Results,
	}
}

// Write outputs the run in JSON format.
func (w *JSONWriter) Write(run *model.Run) (int, error) {
	var data []byte
	var err error

	doc := NewJSONReport(run)
	if w.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
