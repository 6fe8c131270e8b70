package model

import (
	"errors"
	"strings"
	"testing"
)

// TestNewTasks verifies that tasks keep the submission order.
func TestNewTasks(t *testing.T) {
	t.Parallel()

	tasks := NewTasks([]string{"https://a.test/1", "https://b.test/2", "https://c.test/3"})
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, task := range tasks {
		if task.Index != i {
			t.Errorf("task %d has index %d", i, task.Index)
		}
	}
	if tasks[1].URL != "https://b.test/2" {
		t.Errorf("expected second URL to be https://b.test/2, got %q", tasks[1].URL)
	}
}

// TestNewTargetSet tests trimming and ordering of targets.
func TestNewTargetSet(t *testing.T) {
	t.Parallel()

	t.Run("trims and drops empty entries", func(t *testing.T) {
		t.Parallel()

		set := NewTargetSet([]string{"  example.com ", "", "   ", "other.org"})
		if set.Len() != 2 {
			t.Fatalf("expected 2 targets, got %d: %v", set.Len(), set)
		}
		if set[0] != "example.com" || set[1] != "other.org" {
			t.Errorf("unexpected targets: %v", set)
		}
	})

	t.Run("keeps duplicates", func(t *testing.T) {
		t.Parallel()

		set := NewTargetSet([]string{"example.com", "example.com"})
		if set.Len() != 2 {
			t.Errorf("expected duplicates to be kept, got %v", set)
		}
	})
}

// TestParseLines tests reading backlink lists.
func TestParseLines(t *testing.T) {
	t.Parallel()

	input := "https://a.test/1\n\n   https://b.test/2   \n# comment\nhttps://c.test/3"
	lines, err := ParseLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"https://a.test/1", "https://b.test/2", "https://c.test/3"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

// TestStatusBucket tests that BLOCKED and ERROR share a counter.
func TestStatusBucket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		want   Bucket
	}{
		{StatusGood, BucketGood},
		{StatusBad, BucketBad},
		{StatusBlocked, BucketBlockedOrError},
		{StatusError, BucketBlockedOrError},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			t.Parallel()
			if got := tt.status.Bucket(); got != tt.want {
				t.Errorf("expected bucket %d, got %d", tt.want, got)
			}
			if !tt.status.IsValid() {
				t.Error("expected status to be valid")
			}
		})
	}

	if Status("CLOUDFLARE").IsValid() {
		t.Error("unknown status should not be valid")
	}
}

// TestCheckResult tests evidence handling and invariants.
func TestCheckResult(t *testing.T) {
	t.Parallel()

	task := BacklinkTask{Index: 4, URL: "https://a.test/page1"}

	t.Run("settles to GOOD with evidence", func(t *testing.T) {
		t.Parallel()

		r := NewCheckResult(task)
		r.AddMatch("example.com", "Click", LinkNofollow)
		r.Settle()

		if r.Status != StatusGood {
			t.Errorf("expected GOOD, got %s", r.Status)
		}
		if !r.Consistent() {
			t.Error("expected result to be consistent")
		}
	})

	t.Run("settles to BAD without evidence", func(t *testing.T) {
		t.Parallel()

		r := NewCheckResult(task)
		r.Settle()

		if r.Status != StatusBad {
			t.Errorf("expected BAD, got %s", r.Status)
		}
		if !r.Consistent() {
			t.Error("expected result to be consistent")
		}
	})

	t.Run("blocked clears evidence", func(t *testing.T) {
		t.Parallel()

		r := NewCheckResult(task)
		r.AddMatch("example.com", "Click", LinkDofollow)
		r.MarkBlocked("http status 403")

		if r.Status != StatusBlocked {
			t.Errorf("expected BLOCKED, got %s", r.Status)
		}
		if len(r.FoundTargets) != 0 || len(r.AnchorTexts) != 0 || len(r.LinkTypes) != 0 {
			t.Error("expected evidence to be cleared")
		}
		if r.BlockReason != "http status 403" {
			t.Errorf("unexpected block reason %q", r.BlockReason)
		}
		if !r.Consistent() {
			t.Error("expected result to be consistent")
		}
	})

	t.Run("error records message", func(t *testing.T) {
		t.Parallel()

		r := NewCheckResult(task)
		r.MarkError(errors.New("connection refused"))

		if r.Status != StatusError {
			t.Errorf("expected ERROR, got %s", r.Status)
		}
		if r.Error != "connection refused" {
			t.Errorf("unexpected error message %q", r.Error)
		}
	})

	t.Run("mismatched evidence is inconsistent", func(t *testing.T) {
		t.Parallel()

		r := NewCheckResult(task)
		r.FoundTargets = append(r.FoundTargets, "example.com")
		r.Status = StatusGood
		if r.Consistent() {
			t.Error("expected inconsistent result")
		}
	})
}

// TestCheckResultRow tests export flattening.
func TestCheckResultRow(t *testing.T) {
	t.Parallel()

	t.Run("joins evidence and formats status code", func(t *testing.T) {
		t.Parallel()

		r := NewCheckResult(BacklinkTask{Index: 0, URL: "https://a.test/page1"})
		r.AddMatch("example.com", "Click", LinkNofollow)
		r.AddMatch("other.org", NoAnchorText, LinkDofollow)
		r.Settle()
		r.HTTPStatus = IntPtr(200)

		row := r.Row()
		if row.FoundTargets != "example.com, other.org" {
			t.Errorf("unexpected found targets %q", row.FoundTargets)
		}
		if row.AnchorTexts != "Click, (No Text)" {
			t.Errorf("unexpected anchor texts %q", row.AnchorTexts)
		}
		if row.LinkTypes != "Nofollow, Dofollow" {
			t.Errorf("unexpected link types %q", row.LinkTypes)
		}
		if row.HTTPStatus != "200" {
			t.Errorf("expected HTTP status 200, got %q", row.HTTPStatus)
		}
		if len(row.Values()) != len(ExportHeader) {
			t.Errorf("expected %d values, got %d", len(ExportHeader), len(row.Values()))
		}
	})

	t.Run("absent status code is empty", func(t *testing.T) {
		t.Parallel()

		r := NewCheckResult(BacklinkTask{Index: 0, URL: "https://a.test/page1"})
		r.MarkError(errors.New("timeout"))

		row := r.Row()
		if row.HTTPStatus != "" {
			t.Errorf("expected empty HTTP status, got %q", row.HTTPStatus)
		}
		if row.Status != "ERROR" {
			t.Errorf("expected ERROR, got %q", row.Status)
		}
	})
}

// TestRunStatsRecord tests the counter rules.
func TestRunStatsRecord(t *testing.T) {
	t.Parallel()

	stats := NewRunStats(5)
	stats.Record(StatusGood)
	stats.Record(StatusBad)
	stats.Record(StatusBlocked)
	stats.Record(StatusError)
	stats.Record(StatusGood)

	if stats.Good != 2 || stats.Bad != 1 || stats.BlockedOrError != 2 {
		t.Errorf("unexpected counters: %+v", stats)
	}
	if stats.Blocked != 1 || stats.Errored != 1 {
		t.Errorf("expected blocked/errored split 1/1, got %d/%d", stats.Blocked, stats.Errored)
	}
	if !stats.Complete() {
		t.Error("expected stats to be complete")
	}
	if !stats.Balanced() {
		t.Error("expected stats to be balanced")
	}
}
