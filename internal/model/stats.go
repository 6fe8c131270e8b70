package model

// RunStats holds the counters of a single run.
//
// RunStats is not safe for concurrent use on its own; the aggregator guards
// it with the same lock as the result store.
type RunStats struct {
	// Total is the number of backlinks submitted.
	Total int `json:"total"`

	// Good is the number of GOOD results.
	Good int `json:"good"`

	// Bad is the number of BAD results.
	Bad int `json:"bad"`

	// BlockedOrError is the number of BLOCKED plus ERROR results.
	BlockedOrError int `json:"blocked_or_error"`

	// Blocked and Errored split BlockedOrError. They always sum to it.
	Blocked int `json:"blocked"`
	Errored int `json:"errored"`

	// Checked is the number of completed backlinks.
	Checked int `json:"checked"`
}

// NewRunStats returns zeroed counters for a run of total backlinks.
func NewRunStats(total int) RunStats {
	return RunStats{Total: total}
}

// Record counts one completed result.
// Exactly one of Good, Bad or BlockedOrError is incremented, and Checked
// is always incremented.
func (s *RunStats) Record(status Status) {
	switch status.Bucket() {
	case BucketGood:
		s.Good++
	case BucketBad:
		s.Bad++
	case BucketBlockedOrError:
		s.BlockedOrError++
		if status == StatusBlocked {
			s.Blocked++
		} else {
			s.Errored++
		}
	}
	s.Checked++
}

// Complete reports whether every submitted backlink has been counted.
func (s RunStats) Complete() bool {
	return s.Checked == s.Total
}

// Balanced reports whether the bucket counters add up to Checked.
func (s RunStats) Balanced() bool {
	return s.Good+s.Bad+s.BlockedOrError == s.Checked &&
		s.Blocked+s.Errored == s.BlockedOrError
}
