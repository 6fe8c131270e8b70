// Package pipeline runs backlink verification for a batch of pages.
//
// Every backlink becomes one task. A task is executed by a Checker, which
// fetches the page, classifies the response, and matches anchors against the
// target set. The BatchProcessor runs tasks on a bounded number of
// goroutines using errgroup and hands every CheckResult to an Aggregator.
//
// The Aggregator is the only shared state of a run. It guards the result
// store and the RunStats with one mutex, and it forwards a Progress event to
// the run's ProgressReporter after each task. Events are delivered by a
// separate goroutine so a slow reporter never holds up the workers.
//
// A run always processes every task: fetch failures become ERROR results
// and a panicking task is recovered into an ERROR result as well. Once all
// tasks are done the results are sorted back into submission order.
package pipeline
