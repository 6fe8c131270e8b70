package model

import "time"

// Backend names the fetch backend used for a run.
type Backend string

const (
	// BackendDirect fetches pages with a plain HTTP GET.
	BackendDirect Backend = "direct"

	// BackendRendered fetches pages through a headless browser.
	BackendRendered Backend = "rendered"
)

// Run is the materialized outcome of one verification run.
// Results are sorted by ascending Index.
type Run struct {
	// ID uniquely identifies the run.
	ID string `json:"run_id"`

	// Backend is the fetch backend that was used.
	Backend Backend `json:"backend"`

	// Workers is the effective concurrency of the run.
	Workers int `json:"workers"`

	// Targets is the target set the run searched for.
	Targets TargetSet `json:"targets"`

	// StartedAt and FinishedAt bracket the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Stats are the final counters.
	Stats RunStats `json:"stats"`

	// Results holds one entry per backlink in submission order.
	Results []*CheckResult `json:"results"`
}

// Duration returns how long the run took.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Rows flattens every result for export.
func (r *Run) Rows() []Row {
	rows := make([]Row, len(r.Results))
	for i, res := range r.Results {
		rows[i] = res.Row()
	}
	return rows
}
