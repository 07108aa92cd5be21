package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
)

const lankaBase = "https://www.lankapropertyweb.com"

var lankaAmount = regexp.MustCompile(`(Rs\.|\$)\s*[\d,]+`)

// LankaWeb extracts commercial property listings from lankapropertyweb.com.
// Unlike ikman, its listing cards already expose sqft, type, and price, so
// phase 1 produces richer stubs for this source.
type LankaWeb struct{}

// Name implements harvest.Source.
func (LankaWeb) Name() string { return "Lankapropertyweb.com" }

// ListingURL implements harvest.Source.
func (LankaWeb) ListingURL(status string, page int) string {
	path := "/rentals/index.php?property-type=Commercial"
	if strings.EqualFold(status, "Sale") {
		path = "/sale/index.php?property-type=Commercial"
	}
	url := lankaBase + path
	if page > 1 {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url = fmt.Sprintf("%s%spage=%d", url, sep, page)
	}
	return url
}

// ParseListing implements harvest.Source.
func (LankaWeb) ParseListing(body []byte) ([]*harvest.Ad, error) {
	doc, _, err := parseBoth(body)
	if err != nil {
		return nil, err
	}

	cards := selectFirst(doc, "article.listing-item", ".property-listing-item", ".property-card", ".listing")
	if cards == nil {
		return nil, harvest.ErrParse
	}

	var ads []*harvest.Ad
	cards.Each(func(_ int, card *goquery.Selection) {
		title := textFrom(card, "h4.listing-title", ".listing-title", ".property-title", "h3", "h4 a")
		link := hrefFrom(card, lankaBase, "a.listing-header", "a.property-link", ".listing-title a", "h4 a")
		if title == "" || link == "" {
			return
		}
		ad := harvest.NewStub(StripParens(title), link)
		if sqft := textFrom(card, "span.count", ".sqft", ".area", ".property-area"); sqft != "" {
			ad.Sqft = CleanSqft(sqft)
		}
		if pt := textFrom(card, "span.type", ".property-type", ".type-tag"); pt != "" {
			ad.PropertyType = pt
		}
		if img := imageFrom(card, "img", ".property-image img", ".listing-image img"); img != "" {
			ad.ImageURL = img
		}
		if price := textFrom(card, ".price", ".listing-price", ".property-price"); price != "" {
			ad.Price = CleanPriceLanka(price)
		}
		ads = append(ads, ad)
	})
	if len(ads) == 0 {
		return nil, harvest.ErrParse
	}
	return ads, nil
}

// ParseDetail implements harvest.Source.
func (LankaWeb) ParseDetail(body []byte) (harvest.Fields, error) {
	doc, root, err := parseBoth(body)
	if err != nil {
		return nil, err
	}

	fields := harvest.Fields{}

	if loc := docText(doc,
		"div.location.title-light-1",
		"div.location",
		".property-location",
		".address-location",
	); loc != "" {
		fields["Location"] = loc
	} else if loc := keywordScan(doc, "div,span", 0,
		"colombo", "kandy", "galle", "negombo", "batticaloa", "jaffna", "trincomalee",
	); loc != "" {
		fields["Location"] = loc
	}

	if addr := docText(doc,
		"div.word-break--2nyVq.value--1lKHt",
		"div.word-break.value",
		"div.value--1lKHt",
		".property-address",
		".address",
	); addr != "" {
		fields["Address"] = addr
	} else if addr := keywordScan(doc, "div,span,p", 5, "road", "street", "lane", "avenue"); addr != "" {
		fields["Address"] = addr
	}

	if img := imageFrom(doc.Selection, "img.banner-img", ".property-image img", ".gallery img", ".main-image img"); img != "" {
		fields["Image URL"] = img
	} else if img := xpathFirst(root,
		`//img[@class="banner-img"]/@src`,
		`//div[contains(@class, "banner")]//img/@src`,
		`//div[contains(@class, "gallery")]//img/@src`,
	); img != "" {
		fields["Image URL"] = img
	}

	if price := lankaPrice(doc, root); price != "" {
		fields["Price"] = price
	}

	return fields, nil
}

func lankaPrice(doc *goquery.Document, root *html.Node) string {
	if raw := xpathFirst(root,
		`/html/body/section/div[5]/div[2]/div/div[3]/span/text()`,
		`//span[contains(@class, "main_price")]/text()`,
		`//div[contains(@class, "price")]/span/text()`,
	); raw != "" {
		return CleanPriceLanka(raw)
	}
	if raw := docText(doc, "span.main_price.mb-3.mb-sm-0", "span.main_price", ".property-price", ".price"); raw != "" {
		return CleanPriceLanka(raw)
	}

	var found string
	doc.Find("span,div").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if lankaAmount.MatchString(text) {
			found = CleanPriceLanka(text)
			return false
		}
		return true
	})
	return found
}
