package formatter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"techno-ai-be/pkg/codeblock"
)

var (
	inlineCodePattern   = regexp.MustCompile("`([^`\n]+)`")
	inlineHolderPattern = regexp.MustCompile("\x00INLINE(\\d+)\x00")
	boldPattern         = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern       = regexp.MustCompile(`\*([^*\s][^*]*?)\*`)
	importantPattern    = regexp.MustCompile(`\b(IMPORTANT|WARNING|NOTE|STEP|MUST|ALWAYS|NEVER|CRITICAL|REQUIRED|ESSENTIAL|REMEMBER)\b`)
)

// inlineCodes parks rendered `code` spans behind placeholders so emphasis
// and highlighting never reach inside them.
type inlineCodes struct {
	spans []string
}

func (c *inlineCodes) park(code string) string {
	c.spans = append(c.spans, `<code class="inline-code">`+codeblock.EscapeHTML(code)+`</code>`)
	return fmt.Sprintf("\x00INLINE%d\x00", len(c.spans)-1)
}

func (c *inlineCodes) restore(s string) string {
	return inlineHolderPattern.ReplaceAllStringFunc(s, func(ph string) string {
		idx, err := strconv.Atoi(strings.Trim(ph, "\x00")[len("INLINE"):])
		if err != nil || idx >= len(c.spans) {
			return ""
		}
		return c.spans[idx]
	})
}

// emphasis renders one leaf text span.
func (p *pass) emphasis(text string) string {
	text = inlineCodePattern.ReplaceAllStringFunc(text, func(m string) string {
		return p.inline.park(m[1 : len(m)-1])
	})

	text = codeblock.EscapeHTML(text)
	text = boldPattern.ReplaceAllString(text, `<strong>$1</strong>`)
	text = italicPattern.ReplaceAllString(text, `<em>$1</em>`)
	return importantPattern.ReplaceAllString(text, `<span class="highlight-term">$1</span>`)
}
