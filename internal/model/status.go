package model

// Status is the classification of a single backlink.
type Status string

const (
	// StatusGood means at least one target was linked from the page.
	StatusGood Status = "GOOD"

	// StatusBad means the page was inspected and no target was linked.
	StatusBad Status = "BAD"

	// StatusBlocked means an anti-bot challenge prevented inspection.
	// It is a classified outcome, not a failure.
	StatusBlocked Status = "BLOCKED"

	// StatusError means the page could not be fetched at all
	// (network failure, timeout, or browser failure).
	StatusError Status = "ERROR"
)

// Bucket identifies which reporting counter a status increments.
type Bucket int

const (
	// BucketGood counts GOOD results.
	BucketGood Bucket = iota
	// BucketBad counts BAD results.
	BucketBad
	// BucketBlockedOrError counts both BLOCKED and ERROR results.
	BucketBlockedOrError
)

// Bucket returns the counter bucket for the status.
// BLOCKED and ERROR share a bucket even though they remain distinct statuses.
func (s Status) Bucket() Bucket {
	switch s {
	case StatusGood:
		return BucketGood
	case StatusBad:
		return BucketBad
	default:
		return BucketBlockedOrError
	}
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusGood, StatusBad, StatusBlocked, StatusError:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// LinkType is the follow classification of a matched anchor.
type LinkType string

const (
	// LinkDofollow is used when the anchor's rel does not contain "nofollow".
	LinkDofollow LinkType = "Dofollow"

	// LinkNofollow is used when the anchor's rel contains "nofollow".
	LinkNofollow LinkType = "Nofollow"
)

// NoAnchorText replaces the anchor text of a match whose text is empty.
const NoAnchorText = "(No Text)"
