package dto

import (
	"fmt"
	"time"
)

// Quota denial kinds surfaced to clients.
const (
	QuotaKindSessionMessages = "SESSION_LIMIT"
	QuotaKindDailyTokens     = "TOKEN_LIMIT"
	QuotaKindDailyUploads    = "DAILY_LIMIT"
)

// QuotaExceededError is returned by services when a quota check denies an
// operation. The error middleware renders it as a 429 payload.
type QuotaExceededError struct {
	Kind       string  `json:"kind"`
	Limit      int     `json:"limit"`
	Used       int     `json:"used"`
	ResetAfter float64 `json:"reset_after_seconds,omitempty"`
}

func (e *QuotaExceededError) Error() string {
	if e.ResetAfter > 0 {
		return fmt.Sprintf("%s limit reached (%d/%d), resets in %s", e.Kind, e.Used, e.Limit, (time.Duration(e.ResetAfter) * time.Second).String())
	}
	return fmt.Sprintf("%s limit reached (%d/%d)", e.Kind, e.Used, e.Limit)
}

type UsageStatusResponse struct {
	TokensUsed        int        `json:"tokens_used"`
	TokenBudget       int        `json:"token_budget"`
	CooldownActive    bool       `json:"cooldown_active"`
	CooldownEndsAt    *time.Time `json:"cooldown_ends_at,omitempty"`
	CooldownRemaining float64    `json:"cooldown_remaining_seconds,omitempty"`
	PdfUploadsToday   int        `json:"pdf_uploads_today"`
	PdfUploadLimit    int        `json:"pdf_upload_limit"`
	ImageUploadsToday int        `json:"image_uploads_today"`
	ImageUploadLimit  int        `json:"image_upload_limit"`
}

// UsageEventPayload is pushed over the websocket feed when usage changes.
type UsageEventPayload struct {
	Type           string     `json:"type"`
	UserId         string     `json:"user_id"`
	TokensUsed     int        `json:"tokens_used"`
	CooldownEndsAt *time.Time `json:"cooldown_ends_at,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}
