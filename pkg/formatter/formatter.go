// Package formatter turns a raw completion into the structured HTML shown in
// the chat view: headings, nested lists, code blocks and inline emphasis.
package formatter

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"techno-ai-be/pkg/codeblock"
	"techno-ai-be/pkg/title"
)

var (
	headingPattern    = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	blockquotePattern = regexp.MustCompile(`^>\s?(.*)$`)
	dottedPattern     = regexp.MustCompile(`^(\s*)(\d+(?:\.\d+)+)\.?\s+(.+)$`)
	numberedPattern   = regexp.MustCompile(`^(\s*)(\d+)[.)]\s+(.+)$`)
	bulletPattern     = regexp.MustCompile(`^(\s*)[-*+]\s+(.+)$`)
	rulePattern       = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})$`)
)

// Formatter is the stateless renderer; it satisfies the session manager's
// renderer contract.
type Formatter struct{}

func New() Formatter {
	return Formatter{}
}

func (Formatter) Format(raw, question string) string {
	return Format(raw, question)
}

// Format renders raw completion text. It never fails: if any pass panics the
// escaped raw text is rendered instead.
func Format(raw, question string) (out string) {
	heading := title.Short(question)

	defer func() {
		if r := recover(); r != nil {
			out = fallback(raw, heading)
		}
	}()

	return wrap(heading, renderBody(raw))
}

func wrap(heading, body string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="response-container">`)
	sb.WriteString(`<div class="response-title">`)
	sb.WriteString(html.EscapeString(heading))
	sb.WriteString(`</div>`)
	sb.WriteString(`<div class="response-content">`)
	sb.WriteString(body)
	sb.WriteString(`</div></div>`)
	return sb.String()
}

func fallback(raw, heading string) string {
	body := `<p class="raw-response">` + strings.ReplaceAll(html.EscapeString(raw), "\n", "<br>") + `</p>`
	return wrap(heading, body)
}

func renderBody(raw string) string {
	// NUL is reserved for placeholders.
	raw = strings.ReplaceAll(raw, "\x00", "")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	text, blocks := codeblock.Extract(raw)

	p := newPass()
	for _, line := range strings.Split(text, "\n") {
		for _, part := range codeblock.SplitPlaceholders(line) {
			p.line(part)
		}
	}
	p.lists.closeAll()

	body := p.inline.restore(p.out.String())
	return codeblock.Restore(body, blocks)
}

// pass holds the state of a single Format call.
type pass struct {
	out    *strings.Builder
	lists  *listStack
	nest   autoNest
	inline *inlineCodes
}

func newPass() *pass {
	out := &strings.Builder{}
	return &pass{
		out:    out,
		lists:  &listStack{out: out},
		inline: &inlineCodes{},
	}
}

func (p *pass) line(line string) {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimSpace(line)

	if trimmed == "" {
		p.nest.reset()
		return
	}

	if codeblock.IsPlaceholder(trimmed) {
		p.closeBlock()
		p.out.WriteString(trimmed)
		return
	}

	if m := headingPattern.FindStringSubmatch(trimmed); m != nil {
		p.closeBlock()
		level := strconv.Itoa(len(m[1]))
		p.out.WriteString(`<h` + level + ` class="response-heading">`)
		p.out.WriteString(p.emphasis(m[2]))
		p.out.WriteString(`</h` + level + `>`)
		return
	}

	if m := blockquotePattern.FindStringSubmatch(trimmed); m != nil {
		p.closeBlock()
		p.out.WriteString(`<blockquote>`)
		p.out.WriteString(p.emphasis(m[1]))
		p.out.WriteString(`</blockquote>`)
		return
	}

	if rulePattern.MatchString(trimmed) {
		p.closeBlock()
		p.out.WriteString(`<hr>`)
		return
	}

	if m := dottedPattern.FindStringSubmatch(line); m != nil {
		label := m[2]
		level := strings.Count(label, ".") + 1
		p.nest.explicit(label)
		p.lists.item(level, true, label, p.emphasis(m[3]))
		return
	}

	if m := numberedPattern.FindStringSubmatch(line); m != nil {
		level, label := p.nest.number(indentWidth(m[1]), m[2])
		p.lists.item(level, true, label, p.emphasis(m[3]))
		return
	}

	if m := bulletPattern.FindStringSubmatch(line); m != nil {
		level := 1 + indentWidth(m[1])/2
		p.lists.item(level, false, "", p.emphasis(m[2]))
		return
	}

	p.closeBlock()
	p.out.WriteString(`<p>`)
	p.out.WriteString(p.emphasis(trimmed))
	p.out.WriteString(`</p>`)
}

// closeBlock ends any open lists before a non-list block.
func (p *pass) closeBlock() {
	p.lists.closeAll()
	p.nest.reset()
}

func indentWidth(ws string) int {
	n := 0
	for _, r := range ws {
		if r == '\t' {
			n += 4
			continue
		}
		n++
	}
	return n
}
