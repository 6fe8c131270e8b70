// Package model defines the core data structures used throughout backlinkscan.
//
// This package contains the following main types:
//   - BacklinkTask: One candidate page to verify, tagged with its submission index
//   - TargetSet: The ordered list of target URLs searched for on every page
//   - CheckResult: The classification and link evidence for one backlink
//   - RunStats: Counters shared by all workers of a single run
//   - Row: The flattened export form of a CheckResult
//
// Models are kept in their own package so that fetch, verify, pipeline and
// report can share them without import cycles. All types serialize to JSON.
package model
