package model

import (
	"bufio"
	"io"
	"strings"
)

// BacklinkTask is a single candidate page to verify.
// Index is the 0-based position of the URL in the submitted list and is
// used to restore submission order once all tasks have completed.
type BacklinkTask struct {
	// Index is the original submission position.
	Index int `json:"index"`

	// URL is the backlink page to fetch.
	URL string `json:"url"`
}

// NewTasks creates one task per URL, preserving order.
// Callers are expected to pass already trimmed, non-empty URLs
// (see ParseLines and CleanList).
func NewTasks(urls []string) []BacklinkTask {
	tasks := make([]BacklinkTask, len(urls))
	for i, u := range urls {
		tasks[i] = BacklinkTask{Index: i, URL: u}
	}
	return tasks
}

// TargetSet is the ordered sequence of target URLs for a run.
// It is immutable once the run has started.
type TargetSet []string

// NewTargetSet builds a TargetSet from raw input, trimming whitespace and
// dropping empty entries. Declaration order is kept and duplicates are not
// collapsed: each entry is matched independently.
func NewTargetSet(targets []string) TargetSet {
	return TargetSet(CleanList(targets))
}

// Len returns the number of targets.
func (t TargetSet) Len() int {
	return len(t)
}

// CleanList trims every entry and removes the empty ones.
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ParseLines reads one entry per line from r.
// Lines are trimmed; blank lines and lines starting with '#' are skipped.
func ParseLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	// Long tracking URLs exceed the default 64KB token size surprisingly often.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
