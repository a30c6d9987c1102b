// Package classifier assigns a coarse category to free text using keyword
// matching. It is used both to bucket listing-service markets and to tag
// news-derived text.
package classifier

import "strings"

// Category values produced by Classify.
const (
	CategoryCrypto   = "Crypto"
	CategoryPolitics = "Politics"
	CategoryMacro    = "Macro"
	CategoryOther    = "Other"
)

var cryptoKeywords = []string{
	"bitcoin", "btc", "ethereum", "eth", "crypto", "solana", "blockchain",
	"stablecoin", "defi", "altcoin", "token",
}

var politicsKeywords = []string{
	"election", "president", "senate", "congress", "vote", "minister",
	"parliament", "governor", "referendum", "impeach", "coalition",
	"democrat", "republican",
}

var macroKeywords = []string{
	"fed", "interest rate", "rate cut", "rate hike", "inflation", "gdp",
	"recession", "cpi", "unemployment", "treasury", "tariff", "central bank",
}

// Classify returns the category for the given text. Matching is
// case-insensitive substring containment, checked in precedence order:
// crypto, then politics, then macro. Text matching none of the keyword sets
// classifies as Other.
func Classify(text string) string {
	lower := strings.ToLower(text)

	for _, kw := range cryptoKeywords {
		if strings.Contains(lower, kw) {
			return CategoryCrypto
		}
	}
	for _, kw := range politicsKeywords {
		if strings.Contains(lower, kw) {
			return CategoryPolitics
		}
	}
	for _, kw := range macroKeywords {
		if strings.Contains(lower, kw) {
			return CategoryMacro
		}
	}

	return CategoryOther
}
