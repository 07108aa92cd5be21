// Package extract holds the per-source extractor capabilities: pure parsing of
// listing and detail documents plus listing URL construction. Markup fragility
// stays here, outside the concurrency core.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
)

// Build resolves configured source names into extractor implementations.
func Build(names []string) ([]harvest.Source, error) {
	sources := make([]harvest.Source, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "ikman":
			sources = append(sources, Ikman{})
		case "lankaweb":
			sources = append(sources, LankaWeb{})
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}
	return sources, nil
}

// selectFirst tries each selector in order and returns the first non-empty
// match set.
func selectFirst(doc *goquery.Document, selectors ...string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s
		}
	}
	return nil
}

// textFrom returns the trimmed text of the first selector that matches within
// the selection.
func textFrom(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if tag := sel.Find(s).First(); tag.Length() > 0 {
			if text := strings.TrimSpace(tag.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// docText is textFrom against the whole document.
func docText(doc *goquery.Document, selectors ...string) string {
	return textFrom(doc.Selection, selectors...)
}

// hrefFrom resolves the first matching anchor href against base.
func hrefFrom(sel *goquery.Selection, base string, selectors ...string) string {
	for _, s := range selectors {
		tag := sel.Find(s).First()
		href, ok := tag.Attr("href")
		if !ok || href == "" {
			continue
		}
		switch {
		case strings.HasPrefix(href, "/"):
			return base + href
		case strings.HasPrefix(href, "http"):
			return href
		default:
			return base + "/" + href
		}
	}
	return ""
}

// imageFrom returns the first matching image src or data-src.
func imageFrom(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		tag := sel.Find(s).First()
		if tag.Length() == 0 {
			continue
		}
		if src, ok := tag.Attr("src"); ok && src != "" {
			return src
		}
		if src, ok := tag.Attr("data-src"); ok && src != "" {
			return src
		}
	}
	return ""
}

// xpathFirst evaluates expressions in order and returns the first non-empty
// text result. Invalid expressions are skipped.
func xpathFirst(root *html.Node, expressions ...string) string {
	for _, expr := range expressions {
		nodes, err := htmlquery.QueryAll(root, expr)
		if err != nil || len(nodes) == 0 {
			continue
		}
		if text := strings.TrimSpace(htmlquery.InnerText(nodes[0])); text != "" {
			return text
		}
	}
	return ""
}

// keywordScan walks elements matching selector and returns the first text
// longer than minLen containing any keyword. Square-footage rows are skipped
// so a dimension never masquerades as an address.
func keywordScan(doc *goquery.Document, selector string, minLen int, keywords ...string) string {
	var found string
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if len(text) <= minLen || strings.Contains(text, "sqft") {
			return true
		}
		lower := strings.ToLower(text)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				found = text
				return false
			}
		}
		return true
	})
	return found
}

func parseBoth(body []byte) (*goquery.Document, *html.Node, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}
	root, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse document tree: %w", err)
	}
	return doc, root, nil
}
