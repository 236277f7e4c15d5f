// Package title derives the short conversation label shown above a response
// and used as the conversation grouping key.
package title

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fallback is returned when nothing meaningful is left of the question.
const Fallback = "New Conversation"

const (
	maxWords      = 6
	minWordLength = 3
)

// Longer phrases come first so "how do i" wins over "do".
var leadingFiller = regexp.MustCompile(`(?i)^(how do i|how to|gumawa ng|paano|ipaliwanag|create|make|build|explain|write|show|do)\b[\s,:;-]*`)

const tokenPunctuation = `.,;:!?"'()[]{}<>`

// Short reduces a question to at most six title-cased words.
func Short(question string) string {
	q := strings.TrimSpace(question)
	q = strings.TrimSpace(strings.TrimRight(q, "?"))

	for {
		stripped := leadingFiller.ReplaceAllString(q, "")
		if stripped == q {
			break
		}
		q = strings.TrimSpace(stripped)
	}

	caser := cases.Title(language.Und)
	words := make([]string, 0, maxWords)
	for _, tok := range strings.Fields(q) {
		tok = strings.Trim(tok, tokenPunctuation)
		if utf8.RuneCountInString(tok) < minWordLength {
			continue
		}
		words = append(words, caser.String(tok))
		if len(words) == maxWords {
			break
		}
	}

	if len(words) == 0 {
		return Fallback
	}
	return strings.Join(words, " ")
}
