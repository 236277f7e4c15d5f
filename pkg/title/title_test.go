package title

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShort(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{
			name:     "filler phrases stripped",
			question: "How do I create a binary search tree in Java?",
			want:     "Binary Search Tree Java",
		},
		{
			name:     "trailing question marks",
			question: "What is recursion???",
			want:     "What Recursion",
		},
		{
			name:     "six word cap",
			question: "explain linked lists stacks queues heaps graphs tries hashing",
			want:     "Linked Lists Stacks Queues Heaps Graphs",
		},
		{
			name:     "remainder lowercased",
			question: "write a JAVASCRIPT function",
			want:     "Javascript Function",
		},
		{
			name:     "tagalog filler",
			question: "Paano gumawa ng website gamit ang HTML?",
			want:     "Website Gamit Ang Html",
		},
		{
			name:     "punctuation trimmed from tokens",
			question: "Show me: arrays, loops, (and) maps.",
			want:     "Arrays Loops And Maps",
		},
		{
			name:     "filler must be a whole word",
			question: "Docker compose networking",
			want:     "Docker Compose Networking",
		},
		{
			name:     "nothing left",
			question: "How to?",
			want:     Fallback,
		},
		{
			name:     "empty",
			question: "   ",
			want:     Fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Short(tt.question))
		})
	}
}

func TestShortIsStable(t *testing.T) {
	q := "Build a REST API in Go"
	assert.Equal(t, Short(q), Short(q))
	assert.Equal(t, "Rest Api", Short(q))
}
