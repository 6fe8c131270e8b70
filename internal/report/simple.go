package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nao1215/backlinkscan/internal/model"
)

// SimpleWriter outputs a human-readable text report: a header, one aligned
// table row per backlink and the run counters.
type SimpleWriter struct {
	baseWriter

	// verbose adds a Detail column with block reasons and fetch errors.
	verbose bool

	// maxCell caps the width of a table cell. Zero disables truncation.
	maxCell int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the Detail column.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithMaxCellWidth truncates cells longer than n runes.
func WithMaxCellWidth(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.maxCell = n
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		maxCell:    60,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run in human-readable format.
func (w *SimpleWriter) Write(run *model.Run) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, run)
	w.writeTable(&sb, run)
	w.writeSummary(&sb, run)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, run *model.Run) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       BACKLINK CHECK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Run ID:   %s\n", run.ID)
	fmt.Fprintf(sb, "Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration: %s\n", run.Duration().Round(time.Millisecond))
	fmt.Fprintf(sb, "Backend:  %s (%d workers)\n", run.Backend, run.Workers)
	fmt.Fprintf(sb, "Targets:  %s\n\n", strings.Join(run.Targets, ", "))
}

func (w *SimpleWriter) writeTable(sb *strings.Builder, run *model.Run) {
	tw := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)

	header := append([]string{"#"}, model.ExportHeader...)
	if w.verbose {
		header = append(header, "Detail")
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range run.Results {
		row := r.Row()
		cells := []string{fmt.Sprintf("%d", r.Index+1)}
		for _, v := range row.Values() {
			cells = append(cells, w.cell(v))
		}
		if w.verbose {
			cells = append(cells, w.cell(detail(r)))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	_ = tw.Flush() //nolint:errcheck // strings.Builder never fails
	sb.WriteString("\n")
}

func (w *SimpleWriter) cell(v string) string {
	v = dash(strings.ReplaceAll(v, "\t", " "))
	if w.maxCell > 0 {
		v = truncateString(v, w.maxCell)
	}
	return v
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, run *model.Run) {
	s := run.Stats
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Total: %d  Good: %d  Bad: %d  Blocked/Error: %d (blocked %d, error %d)\n",
		s.Total, s.Good, s.Bad, s.BlockedOrError, s.Blocked, s.Errored)
}

// detail explains a BLOCKED or ERROR row.
func detail(r *model.CheckResult) string {
	switch r.Status {
	case model.StatusBlocked:
		return r.BlockReason
	case model.StatusError:
		return r.Error
	default:
		return ""
	}
}
