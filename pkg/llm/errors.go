package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrRateLimited       = errors.New("completion service rate limited")
	ErrUnauthorized      = errors.New("completion service rejected credentials")
	ErrUnavailable       = errors.New("completion service unreachable")
	ErrMalformedResponse = errors.New("completion service returned a malformed response")
)

const (
	ReasonRateLimited = "rate_limited"
	ReasonAuth        = "auth"
	ReasonNetwork     = "network"
	ReasonMalformed   = "malformed"
	ReasonUnknown     = "unknown"
)

// Reason maps an error returned by a provider to a stable reason string.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, ErrUnauthorized):
		return ReasonAuth
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return ReasonNetwork
	case errors.Is(err, ErrMalformedResponse):
		return ReasonMalformed
	default:
		return ReasonUnknown
	}
}

// Describe is the user-facing text shown in place of a reply.
func Describe(err error) string {
	switch Reason(err) {
	case ReasonRateLimited:
		return "The AI service is busy right now. Please wait a moment and try again."
	case ReasonAuth:
		return "The AI service rejected our credentials. Please contact the administrator."
	case ReasonNetwork:
		return "Could not reach the AI service. Check your connection and try again."
	case ReasonMalformed:
		return "The AI service returned an unexpected response. Please try again."
	default:
		return "Sorry, something went wrong while generating a response."
	}
}

// StatusError classifies a non-200 provider response.
func StatusError(provider string, status int, body []byte) error {
	var kind error
	switch {
	case status == http.StatusTooManyRequests:
		kind = ErrRateLimited
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		kind = ErrUnauthorized
	case status >= http.StatusInternalServerError:
		kind = ErrUnavailable
	default:
		return fmt.Errorf("%s error: status %d, body: %s", provider, status, string(body))
	}
	return fmt.Errorf("%w: %s status %d, body: %s", kind, provider, status, string(body))
}

// TransportError wraps a failed round trip, keeping context errors visible.
func TransportError(provider string, err error) error {
	return fmt.Errorf("%w: %s request failed: %w", ErrUnavailable, provider, err)
}
