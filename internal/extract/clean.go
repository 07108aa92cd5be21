package extract

import (
	"regexp"
	"strings"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
)

// Normalization mirrors what the downstream training job expects: bare numeric
// strings for price and sqft, titles without parenthesized noise.
var (
	ikmanPriceChars = regexp.MustCompile(`[Rs.,/month]`)
	lankaPriceChars = regexp.MustCompile(`[Rs.$,() ]`)
	sqftChars       = regexp.MustCompile(`[, sqft]`)
	parenthesized   = regexp.MustCompile(`\(.*?\)`)
	sqftValue       = regexp.MustCompile(`(\d[\d,]*)\s*sqft`)
)

// CleanPriceIkman strips currency markers and the /month suffix.
func CleanPriceIkman(price string) string {
	if price == "" || price == harvest.Placeholder {
		return harvest.Placeholder
	}
	return strings.TrimSpace(ikmanPriceChars.ReplaceAllString(price, ""))
}

// CleanPriceLanka strips currency markers and keeps the leading amount token.
func CleanPriceLanka(price string) string {
	if price == "" || price == harvest.Placeholder {
		return harvest.Placeholder
	}
	cleaned := strings.TrimSpace(lankaPriceChars.ReplaceAllString(price, ""))
	if token, _, found := strings.Cut(cleaned, " "); found {
		return token
	}
	return cleaned
}

// CleanSqft strips separators and the unit suffix from a square-footage value.
func CleanSqft(sqft string) string {
	if sqft == "" || sqft == harvest.Placeholder {
		return harvest.Placeholder
	}
	return strings.TrimSpace(sqftChars.ReplaceAllString(sqft, ""))
}

// StripParens removes parenthesized segments from a title.
func StripParens(value string) string {
	return strings.TrimSpace(parenthesized.ReplaceAllString(value, ""))
}
