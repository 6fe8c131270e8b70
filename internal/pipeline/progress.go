package pipeline

import "github.com/nao1215/backlinkscan/internal/model"

// Progress is delivered to a ProgressReporter after each completed task.
type Progress struct {
	// Checked is the number of completed tasks, including this one.
	Checked int

	// Total is the number of tasks in the run.
	Total int

	// Stats is a snapshot of the counters right after this task.
	Stats model.RunStats

	// Result is the result of the task that just completed.
	Result *model.CheckResult
}

// ProgressReporter observes a run.
//
// Calls are made from a single goroutine owned by the run, never from a
// worker, and OnProgress calls arrive in completion order. OnDone is called
// once, after the last OnProgress.
type ProgressReporter interface {
	OnProgress(p Progress)
	OnDone(stats model.RunStats)
}

// NopReporter ignores all events.
type NopReporter struct{}

// OnProgress implements ProgressReporter.
func (NopReporter) OnProgress(Progress) {}

// OnDone implements ProgressReporter.
func (NopReporter) OnDone(model.RunStats) {}

// ReporterFuncs adapts plain functions to ProgressReporter.
// Nil fields are ignored.
type ReporterFuncs struct {
	Progress func(Progress)
	Done     func(model.RunStats)
}

// OnProgress implements ProgressReporter.
func (r ReporterFuncs) OnProgress(p Progress) {
	if r.Progress != nil {
		r.Progress(p)
	}
}

// OnDone implements ProgressReporter.
func (r ReporterFuncs) OnDone(stats model.RunStats) {
	if r.Done != nil {
		r.Done(stats)
	}
}

// notifier delivers progress events on its own goroutine.
// Its queue holds one slot per task, so enqueue never blocks a worker.
type notifier struct {
	reporter ProgressReporter
	queue    chan Progress
	drained  chan struct{}
}

func startNotifier(reporter ProgressReporter, capacity int) *notifier {
	n := &notifier{
		reporter: reporter,
		queue:    make(chan Progress, capacity),
		drained:  make(chan struct{}),
	}

	go func() {
		defer close(n.drained)
		for p := range n.queue {
			n.reporter.OnProgress(p)
		}
	}()

	return n
}

func (n *notifier) enqueue(p Progress) {
	n.queue <- p
}

// finish waits for queued events to be delivered and then signals done.
func (n *notifier) finish(stats model.RunStats) {
	close(n.queue)
	<-n.drained
	n.reporter.OnDone(stats)
}
