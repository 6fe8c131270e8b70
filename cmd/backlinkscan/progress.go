package main

import (
	"fmt"
	"io"

	"github.com/nao1215/backlinkscan/internal/model"
	"github.com/nao1215/backlinkscan/internal/pipeline"
)

// consoleReporter prints one line per checked page and a closing summary.
type consoleReporter struct {
	w io.Writer
}

func newConsoleReporter(w io.Writer) *consoleReporter {
	return &consoleReporter{w: w}
}

// OnProgress implements pipeline.ProgressReporter.
func (r *consoleReporter) OnProgress(p pipeline.Progress) {
	fmt.Fprintf(r.w, "[%d/%d] %s %s good=%d bad=%d blocked/error=%d\n",
		p.Checked, p.Total,
		p.Result.Status, p.Result.BacklinkURL,
		p.Stats.Good, p.Stats.Bad, p.Stats.BlockedOrError,
	)
}

// OnDone implements pipeline.ProgressReporter.
func (r *consoleReporter) OnDone(s model.RunStats) {
	fmt.Fprintf(r.w, "Checked %d of %d backlinks: %d good, %d bad, %d blocked/error\n\n",
		s.Checked, s.Total, s.Good, s.Bad, s.BlockedOrError)
}
