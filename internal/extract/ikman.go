package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
)

const ikmanBase = "https://ikman.lk"

// Ikman extracts commercial property listings from ikman.lk. The site has
// shipped several generations of hashed class names, hence the fallback
// chains.
type Ikman struct{}

// Name implements harvest.Source.
func (Ikman) Name() string { return "Ikman.lk" }

// ListingURL implements harvest.Source.
func (Ikman) ListingURL(status string, page int) string {
	path := "/en/ads/sri-lanka/commercial-property-rentals"
	if strings.EqualFold(status, "Sale") {
		path = "/en/ads/sri-lanka/commercial-properties-for-sale"
	}
	url := ikmanBase + path
	if page > 1 {
		url = fmt.Sprintf("%s?page=%d", url, page)
	}
	return url
}

// ParseListing implements harvest.Source.
func (Ikman) ParseListing(body []byte) ([]*harvest.Ad, error) {
	doc, _, err := parseBoth(body)
	if err != nil {
		return nil, err
	}

	cards := selectFirst(doc, "li.normal--2QYVk", "li.normal", "div.card", "div.listing-card")
	if cards == nil {
		return nil, harvest.ErrParse
	}

	var ads []*harvest.Ad
	cards.Each(func(_ int, card *goquery.Selection) {
		title := textFrom(card, "h2.heading--2eONR", "h2.heading", ".title", ".ad-title")
		link := hrefFrom(card, ikmanBase, "a.card-link--3ssYv", "a.card-link", `a[href*="/en/ad/"]`, "a.ad-link")
		if title == "" || link == "" {
			return
		}
		ad := harvest.NewStub(StripParens(title), link)
		if img := imageFrom(card, "img", ".card-img img", ".thumbnail img"); img != "" {
			ad.ImageURL = img
		}
		ads = append(ads, ad)
	})
	if len(ads) == 0 {
		return nil, harvest.ErrParse
	}
	return ads, nil
}

// ParseDetail implements harvest.Source.
func (Ikman) ParseDetail(body []byte) (harvest.Fields, error) {
	doc, root, err := parseBoth(body)
	if err != nil {
		return nil, err
	}

	fields := harvest.Fields{}

	if loc := docText(doc,
		"a.subtitle-location-link--1q5zA span",
		"a.subtitle-location-link span",
		".location span",
		".ad-location",
	); loc != "" {
		fields["Location"] = loc
	}

	if sqft := ikmanSqft(doc, root); sqft != "" {
		fields["Sqft"] = sqft
	}

	if addr := xpathFirst(root,
		`//*[@id="app-wrapper"]//div[contains(@class, "value") and not(contains(text(), "sqft"))]/text()`,
	); addr != "" {
		fields["Address"] = addr
	} else if addr := keywordScan(doc, "div,span", 5, "road", "street", "lane", "avenue", "colombo", "kandy"); addr != "" {
		fields["Address"] = addr
	}

	if price := docText(doc, "div.amount--3NTpl", "div.amount", ".price", ".ad-price", "span.amount"); price != "" {
		fields["Price"] = CleanPriceIkman(price)
	}

	fields["Property Type"] = ikmanPropertyType(doc)

	return fields, nil
}

func ikmanSqft(doc *goquery.Document, root *html.Node) string {
	raw := xpathFirst(root,
		`//*[@id="app-wrapper"]//div[contains(text(), "sqft")]/text()`,
		`//div[contains(@class, "value") and contains(text(), "sqft")]/text()`,
	)
	if raw == "" {
		doc.Find("div").EachWithBreak(func(_ int, div *goquery.Selection) bool {
			text := strings.TrimSpace(div.Text())
			if !strings.Contains(text, "sqft") {
				return true
			}
			if m := sqftValue.FindStringSubmatch(text); m != nil {
				raw = m[1]
				return false
			}
			return true
		})
	}
	if raw == "" {
		return ""
	}
	return CleanSqft(raw)
}

func ikmanPropertyType(doc *goquery.Document) string {
	if pt := docText(doc,
		"a.ad-meta-desktop--1Zyra span",
		"a.ad-meta-desktop span",
		".property-type",
		".category span",
	); pt != "" {
		return pt
	}
	title := strings.ToLower(doc.Find("title").First().Text())
	switch {
	case strings.Contains(title, "office"):
		return "Office Space"
	case strings.Contains(title, "shop"):
		return "Shop"
	case strings.Contains(title, "warehouse"):
		return "Warehouse"
	case strings.Contains(title, "building"):
		return "Building"
	default:
		return "Commercial Property"
	}
}
