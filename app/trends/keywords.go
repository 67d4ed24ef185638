package trends

import (
	"strings"
)

const maxKeywords = 5

// stopWords covers common English and Russian function words seen in feed
// titles. Tokens of 3 characters or less are dropped before this check, so
// only longer function words need listing.
var stopWords = map[string]struct{}{
	"with": {}, "from": {}, "this": {}, "that": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "your": {}, "have": {},
	"будет": {}, "если": {}, "чтобы": {}, "этот": {}, "всех": {},
}

// ExtractKeywords tokenizes a title, drops short tokens and stop words, and
// keeps the first maxKeywords remaining tokens in their original order.
func ExtractKeywords(title string) []string {
	cleaned := strings.ToLower(title)
	for _, punct := range []string{",", ".", "!", "?", ":", ";", "\"", "(", ")"} {
		cleaned = strings.ReplaceAll(cleaned, punct, " ")
	}

	keywords := make([]string, 0, maxKeywords)
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 3 {
			continue
		}
		if _, ok := stopWords[word]; ok {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}

	return keywords
}
