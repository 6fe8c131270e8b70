package model

import (
	"strconv"
	"strings"
	"time"
)

// CheckResult is the outcome of verifying one backlink.
//
// A CheckResult is created and filled by exactly one worker and handed to the
// aggregator afterwards, which never mutates it again.
//
// Invariants:
//   - len(FoundTargets) == len(AnchorTexts) == len(LinkTypes)
//   - Status == StatusGood if and only if FoundTargets is non-empty
type CheckResult struct {
	// Index is the original submission position of the backlink.
	Index int `json:"index"`

	// BacklinkURL is the page that was checked.
	BacklinkURL string `json:"backlink_url"`

	// Status is the classification.
	Status Status `json:"status"`

	// FoundTargets lists the matched targets in target declaration order.
	FoundTargets []string `json:"found_targets"`

	// AnchorTexts holds the anchor text of each match, parallel to FoundTargets.
	AnchorTexts []string `json:"anchor_texts"`

	// LinkTypes holds the follow type of each match, parallel to FoundTargets.
	LinkTypes []LinkType `json:"link_types"`

	// HTTPStatus is the response status code. It is nil when the fetch
	// failed or when the rendered backend was used.
	HTTPStatus *int `json:"http_status,omitempty"`

	// BlockReason describes what triggered a BLOCKED classification.
	BlockReason string `json:"block_reason,omitempty"`

	// Error is the fetch failure message for ERROR results.
	Error string `json:"error,omitempty"`

	// Elapsed is the wall time spent on this backlink.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// NewCheckResult creates an empty result for the task.
// Evidence slices are non-nil so JSON output always contains arrays.
func NewCheckResult(task BacklinkTask) *CheckResult {
	return &CheckResult{
		Index:        task.Index,
		BacklinkURL:  task.URL,
		FoundTargets: []string{},
		AnchorTexts:  []string{},
		LinkTypes:    []LinkType{},
	}
}

// AddMatch appends one piece of evidence to the three parallel sequences.
func (r *CheckResult) AddMatch(target, anchorText string, linkType LinkType) {
	r.FoundTargets = append(r.FoundTargets, target)
	r.AnchorTexts = append(r.AnchorTexts, anchorText)
	r.LinkTypes = append(r.LinkTypes, linkType)
}

// Settle derives GOOD or BAD from the collected evidence.
// It must only be called for results that passed classification.
func (r *CheckResult) Settle() {
	if len(r.FoundTargets) > 0 {
		r.Status = StatusGood
		return
	}
	r.Status = StatusBad
}

// MarkBlocked classifies the result as BLOCKED and clears any evidence.
func (r *CheckResult) MarkBlocked(reason string) {
	r.Status = StatusBlocked
	r.BlockReason = reason
	r.clearEvidence()
}

// MarkError classifies the result as ERROR and clears any evidence.
func (r *CheckResult) MarkError(err error) {
	r.Status = StatusError
	if err != nil {
		r.Error = err.Error()
	}
	r.clearEvidence()
}

func (r *CheckResult) clearEvidence() {
	r.FoundTargets = []string{}
	r.AnchorTexts = []string{}
	r.LinkTypes = []LinkType{}
}

// Consistent reports whether the result satisfies its invariants.
func (r *CheckResult) Consistent() bool {
	n := len(r.FoundTargets)
	if len(r.AnchorTexts) != n || len(r.LinkTypes) != n {
		return false
	}
	return (r.Status == StatusGood) == (n > 0)
}

// ExportHeader is the header row of every tabular export.
var ExportHeader = []string{
	"Backlink URL",
	"Status",
	"Found Targets",
	"Anchor Text",
	"Link Type",
	"HTTP Status",
}

// Row is the flattened, export-ready form of a CheckResult.
type Row struct {
	BacklinkURL  string
	Status       string
	FoundTargets string
	AnchorTexts  string
	LinkTypes    string
	// HTTPStatus is empty when no status code was observed.
	HTTPStatus string
}

// Row flattens the result. Evidence sequences are joined with ", ".
func (r *CheckResult) Row() Row {
	row := Row{
		BacklinkURL:  r.BacklinkURL,
		Status:       r.Status.String(),
		FoundTargets: strings.Join(r.FoundTargets, ", "),
		AnchorTexts:  strings.Join(r.AnchorTexts, ", "),
		LinkTypes:    joinLinkTypes(r.LinkTypes),
	}
	if r.HTTPStatus != nil {
		row.HTTPStatus = strconv.Itoa(*r.HTTPStatus)
	}
	return row
}

// Values returns the row in ExportHeader column order.
func (row Row) Values() []string {
	return []string{
		row.BacklinkURL,
		row.Status,
		row.FoundTargets,
		row.AnchorTexts,
		row.LinkTypes,
		row.HTTPStatus,
	}
}

func joinLinkTypes(types []LinkType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
