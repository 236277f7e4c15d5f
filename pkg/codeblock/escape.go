package codeblock

import (
	"html"
	"strconv"
	"strings"
)

// EscapeHTML escapes code for embedding as element text.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// UnescapeHTML reverses EscapeHTML.
func UnescapeHTML(s string) string {
	return html.UnescapeString(s)
}

// EscapeAttr produces the payload for a single-quoted JS string inside an
// HTML attribute: JS escaping first, then HTML escaping.
func EscapeAttr(s string) string {
	return html.EscapeString(escapeJS(s))
}

// UnescapeAttr reverses EscapeAttr.
func UnescapeAttr(s string) string {
	return unescapeJS(html.UnescapeString(s))
}

// escapeJS works on bytes so that invalid UTF-8 survives the round trip.
func escapeJS(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0xE2:
			// U+2028 and U+2029 end a JS string literal.
			if i+2 < len(s) && s[i+1] == 0x80 && (s[i+2] == 0xA8 || s[i+2] == 0xA9) {
				sb.WriteString(`\u202`)
				sb.WriteString(strconv.Itoa(int(s[i+2] - 0xA0)))
				i += 2
				continue
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func unescapeJS(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			if i+4 < len(s) {
				if v, err := strconv.ParseUint(s[i+1:i+5], 16, 32); err == nil {
					sb.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			sb.WriteByte('u')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
