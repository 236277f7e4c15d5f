package formatter

import (
	"strings"
	"testing"
	"time"

	"techno-ai-be/pkg/codeblock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ol(items ...string) string {
	return `<ol class="response-list ordered">` + strings.Join(items, "") + `</ol>`
}

func li(label, text string) string {
	return `<li data-label="` + label + `"><span class="list-label">` + label + `</span> ` + text
}

// content strips the container so tests can compare the body alone.
func content(t *testing.T, out string) string {
	t.Helper()
	const open = `<div class="response-content">`
	start := strings.Index(out, open)
	require.True(t, start >= 0, "missing content region in %q", out)
	body := out[start+len(open):]
	require.True(t, strings.HasSuffix(body, `</div></div>`))
	return strings.TrimSuffix(body, `</div></div>`)
}

func TestFormatOrderedLists(t *testing.T) {
	nested := ol(
		li("1", "Setup")+`</li>`,
		li("2", "Build")+ol(
			li("2.1", "compile")+`</li>`,
			li("2.2", "link")+`</li>`,
		)+`</li>`,
		li("3", "Done")+`</li>`,
	)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "explicit dotted children",
			input: "1. Setup\n2. Build\n2.1 compile\n2.2 link\n3. Done",
			want:  nested,
		},
		{
			name:  "bare children auto nested",
			input: "1. Setup\n2. Build\n1. compile\n2. link\n3. Done",
			want:  nested,
		},
		{
			name:  "indented bare children auto nested",
			input: "1. Setup\n2. Build\n   1. compile\n   2. link\n3. Done",
			want:  nested,
		},
		{
			name:  "dotted then bare continues the child count",
			input: "1. Setup\n2. Build\n2.1 compile\n7. link\n3. Done",
			want:  nested,
		},
		{
			name:  "blank line keeps the list open",
			input: "1. a\n\n2. b",
			want:  ol(li("1", "a")+`</li>`, li("2", "b")+`</li>`),
		},
		{
			name:  "blank line resets auto nesting",
			input: "1. a\n\n5. b",
			want:  ol(li("1", "a")+`</li>`, li("5", "b")+`</li>`),
		},
		{
			name:  "three level dotted",
			input: "1. A\n1.1 B\n1.1.1 C",
			want:  ol(li("1", "A") + ol(li("1.1", "B")+ol(li("1.1.1", "C")+`</li>`)+`</li>`) + `</li>`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, content(t, Format(tt.input, "steps")))
		})
	}
}

func TestFormatUnorderedAndMixedLists(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "indented bullet nests",
			input: "- a\n  - b\n- c",
			want:  `<ul class="response-list"><li>a<ul class="response-list"><li>b</li></ul></li><li>c</li></ul>`,
		},
		{
			name:  "type change at same level reopens",
			input: "- a\n1. b",
			want:  `<ul class="response-list"><li>a</li></ul>` + ol(li("1", "b")+`</li>`),
		},
		{
			name:  "bullets under a numbered step",
			input: "1. Step\n   - why\n2. Next",
			want:  ol(li("1", "Step")+`<ul class="response-list"><li>why</li></ul></li>`, li("2", "Next")+`</li>`),
		},
		{
			name:  "paragraph closes lists",
			input: "1. a\nplain\n2. b",
			want:  ol(li("1", "a")+`</li>`) + `<p>plain</p>` + ol(li("2", "b")+`</li>`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, content(t, Format(tt.input, "")))
		})
	}
}

func TestFormatBlocks(t *testing.T) {
	out := content(t, Format("## Title\n> quoted\n---\nplain <b>", ""))
	assert.Equal(t,
		`<h2 class="response-heading">Title</h2><blockquote>quoted</blockquote><hr><p>plain &lt;b&gt;</p>`,
		out)
}

func TestFormatInline(t *testing.T) {
	out := content(t, Format("This is **bold** and *it* with `x*y*z` NOTE", ""))
	assert.Equal(t,
		`<p>This is <strong>bold</strong> and <em>it</em> with <code class="inline-code">x*y*z</code> <span class="highlight-term">NOTE</span></p>`,
		out)
}

func TestFormatImportantTermsNeedWholeWords(t *testing.T) {
	out := Format("NOTES are not a NOTE", "")
	assert.Equal(t, 1, strings.Count(out, "highlight-term"))
	assert.Contains(t, out, "NOTES are")
}

func TestFormatNeverTouchesCode(t *testing.T) {
	raw := "Intro\n```\n1. not a list\n# not a heading\n**NOTE** stays\n```\nUse `WARNING` literally"
	out := Format(raw, "")

	assert.NotContains(t, out, "<ol")
	assert.NotContains(t, out, "<h1")
	assert.NotContains(t, out, "<strong>")
	assert.NotContains(t, out, "highlight-term")
	assert.Contains(t, out, "1. not a list\n# not a heading\n**NOTE** stays")
	assert.Contains(t, out, `<code class="inline-code">WARNING</code>`)
}

func TestFormatFenceInsideTextLine(t *testing.T) {
	out := content(t, Format("Use this ```js\nlet a = 1;\n``` inline here", ""))

	assert.True(t, strings.HasPrefix(out, `<p>Use this</p><div class="code-block">`), out)
	assert.True(t, strings.HasSuffix(out, `</div><p>inline here</p>`), out)
	assert.NotContains(t, out, `<p>Use this <div`)
}

func TestFormatPythonBlock(t *testing.T) {
	out := Format("Here:\n```python\nprint(\"hi\")\n```", "How to print in python")

	assert.Equal(t, 1, strings.Count(out, `class="code-block"`))
	assert.Contains(t, out, `<span class="code-language">Python</span>`)

	const open = `<code class="language-python">`
	start := strings.Index(out, open)
	require.True(t, start >= 0)
	end := strings.Index(out[start:], `</code>`)
	require.True(t, end > 0)
	assert.Equal(t, `print("hi")`, codeblock.UnescapeHTML(out[start+len(open):start+end]))
}

func TestFormatContainer(t *testing.T) {
	out := Format("Hello", "How do I create a binary search tree in Java?")
	assert.True(t, strings.HasPrefix(out,
		`<div class="response-container"><div class="response-title">Binary Search Tree Java</div><div class="response-content">`))
}

func TestFormatIsDeterministic(t *testing.T) {
	raw := "# Plan\n1. a\n```js\nconst x = 1;\n```\n- `y`\n2. b\n\x00CODEBLOCK9\x00"
	first := Format(raw, "q")
	second := Format(raw, "q")

	assert.Equal(t, first, second)
	assert.NotContains(t, first, "\x00")
	assert.NotContains(t, first, "INLINE")
}

func TestFallback(t *testing.T) {
	out := fallback("a<b\nc", "T")
	assert.Equal(t,
		`<div class="response-container"><div class="response-title">T</div><div class="response-content"><p class="raw-response">a&lt;b<br>c</p></div></div>`,
		out)
}

func TestCacheMatchesFormat(t *testing.T) {
	c := NewCache(time.Minute, time.Minute)
	raw := "1. a\n2. b"

	assert.Equal(t, Format(raw, "What is recursion?"), c.Format(raw, "What is recursion?"))
	assert.Equal(t, 1, c.Len())

	// Same title, same key.
	assert.Equal(t, Format(raw, "what is recursion"), c.Format(raw, "what is recursion"))
	assert.Equal(t, 1, c.Len())

	c.Format(raw, "something else")
	assert.Equal(t, 2, c.Len())
}
