package pipeline

import (
	"sync"
	"testing"

	"github.com/nao1215/backlinkscan/internal/model"
)

// TestAggregator tests concurrent recording and final ordering.
func TestAggregator(t *testing.T) {
	t.Parallel()

	t.Run("records concurrently and sorts by index", func(t *testing.T) {
		t.Parallel()

		const total = 200
		var events int
		var mu sync.Mutex
		agg := NewAggregator(total, func(Progress) {
			mu.Lock()
			events++
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := total - 1; i >= 0; i-- {
			wg.Add(1)
			go func() {
				defer wg.Done()
				r := model.NewCheckResult(model.BacklinkTask{Index: i, URL: "https://a.test/"})
				switch i % 3 {
				case 0:
					r.AddMatch("example.com", "x", model.LinkDofollow)
					r.Settle()
				case 1:
					r.Settle()
				default:
					r.MarkBlocked("http status 429")
				}
				agg.Record(r)
			}()
		}
		wg.Wait()

		stats := agg.Stats()
		if stats.Checked != total || !stats.Complete() || !stats.Balanced() {
			t.Errorf("unexpected stats: %+v", stats)
		}
		if events != total {
			t.Errorf("expected %d events, got %d", total, events)
		}

		results := agg.Results()
		if len(results) != total {
			t.Fatalf("expected %d results, got %d", total, len(results))
		}
		for i, r := range results {
			if r.Index != i {
				t.Fatalf("position %d holds index %d", i, r.Index)
			}
		}
	})

	t.Run("nil notify is allowed", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator(1, nil)
		r := model.NewCheckResult(model.BacklinkTask{Index: 0, URL: "https://a.test/"})
		r.Settle()
		agg.Record(r)
		if agg.Stats().Bad != 1 {
			t.Errorf("expected 1 bad, got %+v", agg.Stats())
		}
	})

	t.Run("live store keeps completion order", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator(2, nil)
		for _, idx := range []int{1, 0} {
			r := model.NewCheckResult(model.BacklinkTask{Index: idx})
			r.Settle()
			agg.Record(r)
		}
		if agg.results[0].Index != 1 {
			t.Errorf("expected live store in completion order, got first index %d", agg.results[0].Index)
		}
		if agg.Results()[0].Index != 0 {
			t.Error("expected sorted results")
		}
	})
}
