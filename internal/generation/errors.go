package generation

import (
	"fmt"
	"strings"
)

// Error kinds surfaced to clients. Classification is advisory, derived from
// best-effort inspection of the provider's error text.
const (
	KindConnection    = "connection_error"
	KindRateLimit     = "rate_limit"
	KindAuth          = "authentication"
	KindQuota         = "quota_exceeded"
	KindInvalid       = "invalid_request"
	KindModel         = "model_error"
	KindContentFilter = "content_filter"
	KindTimeout       = "timeout"
	KindUnknown       = "unknown"
)

// ErrorDetails is the sanitized error payload delivered to clients alongside
// the user-safe message. Raw provider errors never cross this boundary
// beyond the flattened original text.
type ErrorDetails struct {
	Kind          string `json:"error_type"`
	OriginalError string `json:"original_error"`
}

type errorRule struct {
	substrings []string
	kind       string
	message    string
}

// Evaluated top to bottom against the lowercased error description; the
// first rule with any matching substring wins.
var errorRules = []errorRule{
	{
		substrings: []string{"connection", "no such host", "connrefused"},
		kind:       KindConnection,
		message:    "Could not connect to the AI service. Please check your internet connection.",
	},
	{
		substrings: []string{"rate limit", "rate_limit", "too many requests"},
		kind:       KindRateLimit,
		message:    "API rate limit exceeded. Please try again in a few minutes.",
	},
	{
		substrings: []string{"authentication", "unauthorized", "invalid api key", "incorrect api key", "auth"},
		kind:       KindAuth,
		message:    "Authentication error. Please check your API key.",
	},
	{
		substrings: []string{"quota", "billing", "insufficient_quota"},
		kind:       KindQuota,
		message:    "Your API quota has been exceeded. Please check your billing details.",
	},
	{
		substrings: []string{"invalid_request", "bad request", "validation"},
		kind:       KindInvalid,
		message:    "Invalid request. Please check your inputs and try again.",
	},
	{
		substrings: []string{"model not found", "model is unavailable", "model_not_found"},
		kind:       KindModel,
		message:    "The requested AI model is currently unavailable.",
	},
	{
		substrings: []string{"content_filter", "content filter", "content policy", "safety system"},
		kind:       KindContentFilter,
		message:    "Your request was flagged by content filters. Please modify your content and try again.",
	},
	{
		substrings: []string{"timeout", "timed out", "deadline exceeded"},
		kind:       KindTimeout,
		message:    "The request timed out. Please try again with simpler inputs.",
	},
}

const unknownMessage = "An error occurred with the AI service. Please try again later."

// Classify maps a provider failure to a user-safe message and a stable kind
// tag. Unknown failures fall through to a generic message rather than
// leaking the raw error.
func Classify(err error) (string, ErrorDetails) {
	if err == nil {
		return unknownMessage, ErrorDetails{Kind: KindUnknown}
	}
	desc := strings.ToLower(fmt.Sprintf("%T: %v", err, err))
	details := ErrorDetails{Kind: KindUnknown, OriginalError: err.Error()}
	for _, rule := range errorRules {
		for _, sub := range rule.substrings {
			if strings.Contains(desc, sub) {
				details.Kind = rule.kind
				return rule.message, details
			}
		}
	}
	return unknownMessage, details
}
