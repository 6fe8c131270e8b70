package pipeline

import (
	"sort"
	"sync"

	"github.com/nao1215/backlinkscan/internal/model"
)

// Aggregator collects results and counters for one run.
//
// All mutation happens in Record under a single mutex: appending the
// result, updating exactly one bucket counter plus Checked, and queueing
// the progress event. The store keeps completion order; Results sorts a
// copy by submission index.
type Aggregator struct {
	mu      sync.Mutex
	results []*model.CheckResult
	stats   model.RunStats

	// notify receives a progress event per recorded result. It must not block.
	notify func(Progress)
}

// NewAggregator creates an Aggregator for a run of total tasks.
// notify may be nil.
func NewAggregator(total int, notify func(Progress)) *Aggregator {
	return &Aggregator{
		results: make([]*model.CheckResult, 0, total),
		stats:   model.NewRunStats(total),
		notify:  notify,
	}
}

// Record stores a completed result. The aggregator owns result afterwards.
func (a *Aggregator) Record(result *model.CheckResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.results = append(a.results, result)
	a.stats.Record(result.Status)

	if a.notify != nil {
		a.notify(Progress{
			Checked: a.stats.Checked,
			Total:   a.stats.Total,
			Stats:   a.stats,
			Result:  result,
		})
	}
}

// Stats returns a snapshot of the counters.
func (a *Aggregator) Stats() model.RunStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Results returns the recorded results sorted by ascending Index.
func (a *Aggregator) Results() []*model.CheckResult {
	a.mu.Lock()
	out := make([]*model.CheckResult, len(a.results))
	copy(out, a.results)
	a.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}
