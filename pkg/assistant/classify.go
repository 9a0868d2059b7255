package assistant

import (
	"errors"
	"strings"
)

// FailureKind is the structured classification of a provider error.
type FailureKind string

const (
	// FailureRateLimited covers provider-side rate or token-budget
	// rejections; callers react with a defensive cooldown.
	FailureRateLimited FailureKind = "RATE_LIMITED"
	// FailureService covers every other provider failure.
	FailureService FailureKind = "SERVICE_FAILURE"
)

// ErrRateLimited is returned by providers that detect a rate/quota
// rejection structurally (HTTP 429, explicit error codes). Wrap it so
// Classify does not have to fall back to message sniffing.
var ErrRateLimited = errors.New("assistant: rate limited")

// rateLimitPhrases is the last-resort fallback for providers that only
// surface a free-text error. Matching on message text is fragile, so it
// stays isolated here.
var rateLimitPhrases = []string{
	"rate limit",
	"token limit",
	"quota",
	"too many requests",
}

// Classify maps a provider error to a failure kind. Structured
// detection (ErrRateLimited) wins; the phrase scan is the fallback.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureService
	}
	if errors.Is(err, ErrRateLimited) {
		return FailureRateLimited
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range rateLimitPhrases {
		if strings.Contains(msg, phrase) {
			return FailureRateLimited
		}
	}
	return FailureService
}
