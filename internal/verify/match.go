package verify

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/backlinkscan/internal/model"
)

// Evidence is one matched target.
type Evidence struct {
	// Target is the target URL as declared.
	Target string

	// AnchorText is the trimmed anchor text, or model.NoAnchorText.
	AnchorText string

	// LinkType is Nofollow or Dofollow.
	LinkType model.LinkType
}

// anchor is an href-bearing <a> element in document order.
type anchor struct {
	href     string
	text     string
	linkType model.LinkType
}

// Match finds, for every target, the first anchor whose href contains the
// target as a case-insensitive substring. Evidence is returned in target
// declaration order; targets without a matching anchor are skipped.
func Match(body string, targets model.TargetSet) ([]Evidence, error) {
	anchors, err := parseAnchors(body)
	if err != nil {
		return nil, err
	}

	evidence := make([]Evidence, 0, len(targets))
	for _, target := range targets {
		needle := strings.ToLower(target)
		for _, a := range anchors {
			if !strings.Contains(a.href, needle) {
				continue
			}
			evidence = append(evidence, Evidence{
				Target:     target,
				AnchorText: a.text,
				LinkType:   a.linkType,
			})
			break
		}
	}

	return evidence, nil
}

// parseAnchors extracts every a[href] element once so that each target
// scans the same slice. Hrefs are lowercased for matching.
func parseAnchors(body string) ([]anchor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	var anchors []anchor
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		text := strings.TrimSpace(s.Text())
		if text == "" {
			text = model.NoAnchorText
		}
		rel, _ := s.Attr("rel")
		anchors = append(anchors, anchor{
			href:     strings.ToLower(href),
			text:     text,
			linkType: linkTypeOf(rel),
		})
	})

	return anchors, nil
}

// linkTypeOf classifies a rel attribute value. rel is a space-separated
// token list, so "nofollow noopener" counts as nofollow.
func linkTypeOf(rel string) model.LinkType {
	for _, token := range strings.Fields(rel) {
		if strings.EqualFold(token, "nofollow") {
			return model.LinkNofollow
		}
	}
	return model.LinkDofollow
}

// Apply runs the matcher and fills result with the evidence.
// The result's status is settled to GOOD or BAD.
func Apply(result *model.CheckResult, body string, targets model.TargetSet) error {
	evidence, err := Match(body, targets)
	if err != nil {
		return err
	}
	for _, e := range evidence {
		result.AddMatch(e.Target, e.AnchorText, e.LinkType)
	}
	result.Settle()
	return nil
}
