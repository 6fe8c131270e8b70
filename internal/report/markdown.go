package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/backlinkscan/internal/model"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run in Markdown format.
func (w *MarkdownWriter) Write(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, run)
	w.writeSummary(md, run)
	w.writeResults(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, run *model.Run) {
	md.H1("Backlink Check Report")
	md.PlainText("")

	targets := make([]string, len(run.Targets))
	for i, t := range run.Targets {
		targets[i] = "`" + t + "`"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + run.ID + "`"},
			{"Started", run.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Duration().Round(time.Millisecond).String()},
			{"Backend", string(run.Backend)},
			{"Workers", strconv.Itoa(run.Workers)},
			{"Targets", strings.Join(targets, ", ")},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, run *model.Run) {
	s := run.Stats

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ Good", strconv.Itoa(s.Good)},
			{"❌ Bad", strconv.Itoa(s.Bad)},
			{"🚧 Blocked", strconv.Itoa(s.Blocked)},
			{"⚠️ Error", strconv.Itoa(s.Errored)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Checked > 0 {
		w.writePieChart(md, s)
	}

	switch {
	case s.Total > 0 && s.Good == s.Total:
		md.Tip("Every backlink links to a target.")
	case s.BlockedOrError > 0:
		md.Warningf("%d backlink(s) could not be verified (blocked %d, error %d).", s.BlockedOrError, s.Blocked, s.Errored)
	case s.Bad > 0:
		md.Importantf("%d backlink(s) do not link to any target.", s.Bad)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.RunStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Backlink Status"),
		piechart.WithShowData(true),
	)

	for _, slice := range []struct {
		label string
		count int
	}{
		{"Good", s.Good},
		{"Bad", s.Bad},
		{"Blocked", s.Blocked},
		{"Error", s.Errored},
	} {
		if slice.count > 0 {
			chart.LabelAndIntValue(slice.label, uint64(slice.count)) //nolint:gosec // counts are non-negative
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, run *model.Run) {
	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, len(run.Results))
	for i, r := range run.Results {
		values := r.Row().Values()
		for j, v := range values {
			values[j] = escapeCell(v)
		}
		rows[i] = values
	}

	md.Table(markdown.TableSet{
		Header: model.ExportHeader,
		Rows:   rows,
	})
	md.PlainText("")

	var notes []string
	for _, r := range run.Results {
		if d := detail(r); d != "" {
			notes = append(notes, r.BacklinkURL+": "+d)
		}
	}
	if len(notes) > 0 {
		md.H3("Blocked and failed pages")
		md.PlainText("")
		md.BulletList(notes...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [backlinkscan](https://github.com/nao1215/backlinkscan)*")
}

// escapeCell keeps cell content from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\n", " ")
	return dash(s)
}
