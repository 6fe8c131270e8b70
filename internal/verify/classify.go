package verify

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/nao1215/backlinkscan/internal/fetch"
	"github.com/nao1215/backlinkscan/internal/model"
)

// blockedStatusCodes are responses that indicate an anti-bot wall.
var blockedStatusCodes = map[int]bool{
	http.StatusForbidden:          true,
	http.StatusTooManyRequests:    true,
	http.StatusServiceUnavailable: true,
}

// blockMarkers are lowercase body fragments left by challenge pages.
var blockMarkers = []string{"cloudflare", "cf-ray"}

// Verdict is the classifier's decision.
type Verdict struct {
	// Status is StatusError or StatusBlocked when the page must not be
	// matched. It is empty when matching should proceed.
	Status model.Status

	// Reason explains an ERROR or BLOCKED verdict.
	Reason string
}

// Proceed reports whether the page should be handed to the matcher.
func (v Verdict) Proceed() bool {
	return v.Status == ""
}

// Classify evaluates a fetch outcome. The rules apply in order:
//  1. a fetch error yields ERROR
//  2. a 403, 429 or 503 status yields BLOCKED
//  3. a body containing "cloudflare" or "cf-ray" (any case) yields BLOCKED
//  4. anything else proceeds to matching
func Classify(resp *fetch.Response, err error) Verdict {
	if err != nil {
		return Verdict{Status: model.StatusError, Reason: err.Error()}
	}
	if resp == nil {
		return Verdict{Status: model.StatusError, Reason: "empty response"}
	}

	if resp.StatusCode != nil && blockedStatusCodes[*resp.StatusCode] {
		return Verdict{
			Status: model.StatusBlocked,
			Reason: fmt.Sprintf("http status %d", *resp.StatusCode),
		}
	}

	if marker := findBlockMarker(resp.Body); marker != "" {
		return Verdict{
			Status: model.StatusBlocked,
			Reason: fmt.Sprintf("body contains %q", marker),
		}
	}

	return Verdict{}
}

func findBlockMarker(body string) string {
	lower := strings.ToLower(body)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return marker
		}
	}
	return ""
}
