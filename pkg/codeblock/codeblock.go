package codeblock

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// A tag only counts as a language when it sits directly on the fence line.
var fencePattern = regexp.MustCompile("```(?:([\\w+#.-]+)[ \\t]*\\r?\\n|\\r?\\n?)([\\s\\S]*?)```")

var placeholderPattern = regexp.MustCompile("\x00CODEBLOCK(\\d+)\x00")

// Block is one fenced code span lifted out of a completion.
type Block struct {
	Index       int
	Language    string
	Code        string
	Placeholder string
}

// Escaped returns the code ready to sit inside <code>.
func (b Block) Escaped() string {
	return EscapeHTML(b.Code)
}

// AttrEscaped returns the code as a single-quoted JS string literal body,
// HTML-escaped for use inside an event handler attribute.
func (b Block) AttrEscaped() string {
	return EscapeAttr(b.Code)
}

// Placeholder returns the token that stands in for block i during a formatting pass.
func Placeholder(i int) string {
	return fmt.Sprintf("\x00CODEBLOCK%d\x00", i)
}

// HasCode reports whether text contains at least one complete fenced block.
func HasCode(text string) bool {
	return fencePattern.MatchString(text)
}

// Extract replaces every fenced block in text with a placeholder and returns
// the blocks in order of appearance. Unterminated fences are left untouched.
func Extract(text string) (string, []Block) {
	var blocks []Block
	out := fencePattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := fencePattern.FindStringSubmatch(match)
		code := trimFenceNewline(sub[2])

		lang := CanonicalLanguage(sub[1])
		if lang == "" {
			lang = DetectLanguage(code)
		}

		b := Block{
			Index:       len(blocks),
			Language:    lang,
			Code:        code,
			Placeholder: Placeholder(len(blocks)),
		}
		blocks = append(blocks, b)
		return b.Placeholder
	})
	return out, blocks
}

// Restore substitutes rendered blocks back into text. Placeholders without a
// matching block are dropped so none survive into the final markup.
func Restore(text string, blocks []Block) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(ph string) string {
		var idx int
		if _, err := fmt.Sscanf(strings.Trim(ph, "\x00"), "CODEBLOCK%d", &idx); err != nil {
			return ""
		}
		if idx < 0 || idx >= len(blocks) {
			return ""
		}
		return Render(blocks[idx])
	})
}

// IsPlaceholder reports whether s (already trimmed) is exactly one block placeholder.
func IsPlaceholder(s string) bool {
	loc := placeholderPattern.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// SplitPlaceholders cuts a line into text and placeholder segments so a block
// never ends up inside a paragraph. Blank text segments are dropped and text
// after the first segment is trimmed. A line without placeholders is returned as is.
func SplitPlaceholders(line string) []string {
	locs := placeholderPattern.FindAllStringIndex(line, -1)
	if locs == nil {
		return []string{line}
	}

	var parts []string
	prev := 0
	for _, loc := range locs {
		if text := line[prev:loc[0]]; strings.TrimSpace(text) != "" {
			if prev > 0 {
				text = strings.TrimSpace(text)
			}
			parts = append(parts, text)
		}
		parts = append(parts, line[loc[0]:loc[1]])
		prev = loc[1]
	}
	if text := strings.TrimSpace(line[prev:]); text != "" {
		parts = append(parts, text)
	}
	return parts
}

// CanonicalLanguage maps a fence tag to its display name using the chroma
// lexer registry ("py" -> "Python"). Unknown tags are returned unchanged.
func CanonicalLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	switch strings.ToLower(tag) {
	case "text", "txt", "plain", "plaintext":
		return "text"
	}
	if lexer := lexers.Get(tag); lexer != nil {
		if cfg := lexer.Config(); cfg != nil && cfg.Name != "" {
			return cfg.Name
		}
	}
	return tag
}

// Render builds the code block markup: language badge, copy button carrying
// the attribute-escaped payload, and the escaped code.
func Render(b Block) string {
	var sb strings.Builder
	sb.WriteString(`<div class="code-block">`)
	sb.WriteString(`<div class="code-header">`)
	sb.WriteString(`<span class="code-language">`)
	sb.WriteString(EscapeHTML(b.Language))
	sb.WriteString(`</span>`)
	sb.WriteString(`<button class="copy-btn" onclick="copyCode(this, '`)
	sb.WriteString(b.AttrEscaped())
	sb.WriteString(`')">Copy</button>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`<pre><code class="language-`)
	sb.WriteString(languageClass(b.Language))
	sb.WriteString(`">`)
	sb.WriteString(b.Escaped())
	sb.WriteString(`</code></pre></div>`)
	return sb.String()
}

func trimFenceNewline(code string) string {
	code = strings.TrimSuffix(code, "\n")
	return strings.TrimSuffix(code, "\r")
}

func languageClass(lang string) string {
	r := strings.NewReplacer("+", "p", "#", "sharp", " ", "-", "/", "-")
	return strings.ToLower(r.Replace(lang))
}
