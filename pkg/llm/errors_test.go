package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"rate limited", StatusError("gemini", http.StatusTooManyRequests, nil), ReasonRateLimited},
		{"unauthorized", StatusError("gemini", http.StatusUnauthorized, nil), ReasonAuth},
		{"forbidden", StatusError("gemini", http.StatusForbidden, nil), ReasonAuth},
		{"server error", StatusError("gemini", http.StatusBadGateway, nil), ReasonNetwork},
		{"bad request", StatusError("gemini", http.StatusBadRequest, []byte("x")), ReasonUnknown},
		{"transport", TransportError("ollama", errors.New("dial tcp")), ReasonNetwork},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), ReasonNetwork},
		{"malformed", fmt.Errorf("%w: no candidates", ErrMalformedResponse), ReasonMalformed},
		{"other", errors.New("boom"), ReasonUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reason(tt.err))
		})
	}
}

func TestDescribeDiffersPerReason(t *testing.T) {
	seen := map[string]bool{}
	for _, err := range []error{ErrRateLimited, ErrUnauthorized, ErrUnavailable, ErrMalformedResponse, errors.New("x")} {
		seen[Describe(err)] = true
	}
	assert.Len(t, seen, 5)
}

func TestApply(t *testing.T) {
	o := Apply(Options{Temperature: 0.7, MaxTokens: 100}, WithMaxTokens(10), WithModel("m"))
	assert.Equal(t, Options{Temperature: 0.7, MaxTokens: 10, Model: "m"}, o)
}
