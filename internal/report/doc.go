// Package report renders the outcome of a verification run.
//
// This package contains writers for different output formats:
//   - SimpleWriter: aligned text table and counters for terminal display
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown for sharing
//   - XLSXWriter: spreadsheet export with a fixed header
//
// Every writer consumes a *model.Run whose results are already in
// submission order, and every row is produced by model.CheckResult.Row, so
// all formats agree on the export contract.
package report
