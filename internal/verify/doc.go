// Package verify decides what a fetched backlink page means.
//
// Classify gates a fetch outcome: failed fetches become ERROR, anti-bot
// responses become BLOCKED, and everything else proceeds to matching.
// Match scans the page's anchors for each target URL and extracts the
// anchor text and follow type of the first matching anchor per target.
//
// Both functions are pure and backend-agnostic; they only see the
// fetch.Response and the TargetSet.
package verify
