package quota

import "time"

// Denial reasons. These are wire-level kinds, not error types; the
// service layer wraps them into the HTTP error envelope.
const (
	ReasonSessionLimit = "SESSION_LIMIT"
	ReasonTokenLimit   = "TOKEN_LIMIT"
	ReasonDailyLimit   = "DAILY_LIMIT"
)

// Upload kinds the gate distinguishes.
const (
	KindPdf   = "pdf"
	KindImage = "image"
)

// Policy holds the ceilings the tracker enforces.
type Policy struct {
	SessionMessageLimit int
	DailyTokenBudget    int
	Cooldown            time.Duration
	DailyPdfUploads     int
	DailyImageUploads   int
}

// DefaultPolicy mirrors the product rules: 500 exchanges per session,
// 100k tokens per day with a 2 hour cooldown, 2 uploads per kind per day.
func DefaultPolicy() Policy {
	return Policy{
		SessionMessageLimit: 500,
		DailyTokenBudget:    100000,
		Cooldown:            2 * time.Hour,
		DailyPdfUploads:     2,
		DailyImageUploads:   2,
	}
}

// DailySnapshot is the tracker's view of one user's day.
type DailySnapshot struct {
	TokensUsed     int
	CooldownEndsAt *time.Time
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed    bool
	Reason     string // set when denied
	Limit      int
	Used       int
	ResetAfter time.Time // when the denied action becomes possible again
}

func allowed() Decision {
	return Decision{Allowed: true}
}

// Tracker applies the quota policy. It holds no IO; callers load and
// persist the snapshots. Now is injectable for tests and defaults to
// time.Now.
type Tracker struct {
	policy Policy
	now    func() time.Time
}

func NewTracker(policy Policy) *Tracker {
	return &Tracker{
		policy: policy,
		now:    time.Now,
	}
}

// WithClock overrides the tracker's clock. Test helper.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Settle normalizes a snapshot against the clock: an elapsed cooldown
// resets the token tally to zero and clears the cooldown marker. It
// returns the settled snapshot and whether anything changed (so callers
// know to persist).
func (t *Tracker) Settle(s DailySnapshot) (DailySnapshot, bool) {
	if s.CooldownEndsAt != nil && !t.now().Before(*s.CooldownEndsAt) {
		s.TokensUsed = 0
		s.CooldownEndsAt = nil
		return s, true
	}
	return s, false
}

// CanSendMessage decides whether one more exchange is permitted.
// The session cap is checked first and is independent of token state.
func (t *Tracker) CanSendMessage(messageCount int, s DailySnapshot) Decision {
	if messageCount >= t.policy.SessionMessageLimit {
		return Decision{
			Allowed: false,
			Reason:  ReasonSessionLimit,
			Limit:   t.policy.SessionMessageLimit,
			Used:    messageCount,
		}
	}

	s, _ = t.Settle(s)
	if s.TokensUsed >= t.policy.DailyTokenBudget && s.CooldownEndsAt != nil && t.now().Before(*s.CooldownEndsAt) {
		return Decision{
			Allowed:    false,
			Reason:     ReasonTokenLimit,
			Limit:      t.policy.DailyTokenBudget,
			Used:       s.TokensUsed,
			ResetAfter: *s.CooldownEndsAt,
		}
	}

	return allowed()
}

// Record adds the reported token cost of one exchange. Crossing the
// daily budget with no cooldown already running starts one.
func (t *Tracker) Record(s DailySnapshot, tokensConsumed int) DailySnapshot {
	s.TokensUsed += tokensConsumed
	if s.TokensUsed >= t.policy.DailyTokenBudget && s.CooldownEndsAt == nil {
		ends := t.now().Add(t.policy.Cooldown)
		s.CooldownEndsAt = &ends
	}
	return s
}

// StartCooldown forces a cooldown regardless of the tally. Used as the
// defensive reaction when the upstream provider reports a rate or token
// limit the local tally missed.
func (t *Tracker) StartCooldown(s DailySnapshot) DailySnapshot {
	if s.CooldownEndsAt == nil {
		ends := t.now().Add(t.policy.Cooldown)
		s.CooldownEndsAt = &ends
	}
	return s
}

// CanUpload decides whether one more attachment of the kind fits in
// today's allowance. Counts come from the caller (derived by querying
// the day's stored uploads).
func (t *Tracker) CanUpload(pdfCount, imageCount int, kind string) Decision {
	limit := t.policy.DailyPdfUploads
	used := pdfCount
	if kind == KindImage {
		limit = t.policy.DailyImageUploads
		used = imageCount
	}

	if used >= limit {
		return Decision{
			Allowed:    false,
			Reason:     ReasonDailyLimit,
			Limit:      limit,
			Used:       used,
			ResetAfter: t.nextMidnight(),
		}
	}
	return allowed()
}

// nextMidnight is when daily upload counters effectively reset.
func (t *Tracker) nextMidnight() time.Time {
	now := t.now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
