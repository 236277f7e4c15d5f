package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"Hello there", true},
		{"  good morning!", true},
		{"Kumusta ka?", true},
		{"what's up", true},
		{"Greetings, assistant", true},
		{"history of computing", false},
		{"How do I sort an array?", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGreeting(tt.message))
		})
	}
}

func TestPrefersTagalog(t *testing.T) {
	assert.True(t, PrefersTagalog("Paki explain po ang loops"))
	assert.True(t, PrefersTagalog("Salamat!"))
	assert.False(t, PrefersTagalog("Explain anonymous functions"))
}

func TestEnhance(t *testing.T) {
	opts := DefaultOptions()

	t.Run("empty message", func(t *testing.T) {
		assert.Equal(t, emptyTemplate, Enhance("  ", opts))
	})

	t.Run("english greeting", func(t *testing.T) {
		out := Enhance("hello", opts)
		assert.True(t, strings.HasPrefix(out, "Hi! I'm Techno.ai. How can I help you today?"))
		assert.Contains(t, out, "**Planning Checklist:**")
		assert.NotContains(t, out, "OUTPUT FORMAT")
	})

	t.Run("tagalog greeting with user name", func(t *testing.T) {
		o := opts
		o.UserName = "Juan"
		out := Enhance("kumusta", o)
		assert.True(t, strings.HasPrefix(out, "Hi! I'm Techno.ai - Juan. Kumusta?"))
	})

	t.Run("question uses answer template", func(t *testing.T) {
		out := Enhance("How do I reverse a string in Java?", opts)
		assert.True(t, strings.HasPrefix(out, `User Question: "How do I reverse a string in Java?"`))
		assert.Contains(t, out, "**Audience:** student")
		assert.Contains(t, out, "**Language:** English")
		assert.Contains(t, out, "**Role:** Techno.ai")
		assert.True(t, strings.HasSuffix(out, `Now answer: "How do I reverse a string in Java?"`))
	})

	t.Run("preference forces tagalog", func(t *testing.T) {
		o := opts
		o.PreferTagalog = true
		assert.Contains(t, Enhance("Explain recursion", o), "**Language:** Tagalog")
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, Enhance("Explain recursion", opts), Enhance("Explain recursion", opts))
	})
}

func TestOptionsWithDefaults(t *testing.T) {
	got := Options{UserName: "Ana", PreferTagalog: true}.WithDefaults()
	assert.Equal(t, Options{RoleName: DefaultRoleName, UserName: "Ana", Audience: DefaultAudience, PreferTagalog: true}, got)

	custom := Options{RoleName: "Tutor", Audience: "teacher"}
	assert.Equal(t, custom, custom.WithDefaults())
}
