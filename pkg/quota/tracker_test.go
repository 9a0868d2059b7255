package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestCanSendMessage_SessionLimit(t *testing.T) {
	tracker := NewTracker(DefaultPolicy())

	t.Run("under the cap", func(t *testing.T) {
		d := tracker.CanSendMessage(499, DailySnapshot{})
		assert.True(t, d.Allowed)
	})

	t.Run("at the cap", func(t *testing.T) {
		d := tracker.CanSendMessage(500, DailySnapshot{})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonSessionLimit, d.Reason)
		assert.Equal(t, 500, d.Limit)
		assert.Equal(t, 500, d.Used)
	})

	t.Run("session cap wins over token state", func(t *testing.T) {
		// Even with a clean token tally the full session stays closed.
		d := tracker.CanSendMessage(500, DailySnapshot{TokensUsed: 0})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonSessionLimit, d.Reason)
	})
}

func TestCanSendMessage_TokenLimit(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(DefaultPolicy()).WithClock(fixedClock(now))

	t.Run("cooldown running blocks", func(t *testing.T) {
		ends := now.Add(1 * time.Hour)
		d := tracker.CanSendMessage(10, DailySnapshot{TokensUsed: 100500, CooldownEndsAt: &ends})
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonTokenLimit, d.Reason)
		assert.Equal(t, 100000, d.Limit)
		assert.Equal(t, ends, d.ResetAfter)
	})

	t.Run("elapsed cooldown allows again", func(t *testing.T) {
		ends := now.Add(-1 * time.Minute)
		d := tracker.CanSendMessage(10, DailySnapshot{TokensUsed: 100500, CooldownEndsAt: &ends})
		assert.True(t, d.Allowed)
	})

	t.Run("over budget without cooldown marker still allows", func(t *testing.T) {
		// Only a running cooldown blocks; the tally alone does not.
		d := tracker.CanSendMessage(10, DailySnapshot{TokensUsed: 100500})
		assert.True(t, d.Allowed)
	})
}

func TestRecord_CrossingBudgetStartsCooldown(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(DefaultPolicy()).WithClock(fixedClock(now))

	// 99k used, one expensive exchange tips the day over the budget.
	s := tracker.Record(DailySnapshot{TokensUsed: 99000}, 1500)
	assert.Equal(t, 100500, s.TokensUsed)
	if assert.NotNil(t, s.CooldownEndsAt) {
		assert.Equal(t, now.Add(2*time.Hour), *s.CooldownEndsAt)
	}

	// The exchange that crossed the line was still counted in full; only
	// the next attempt is blocked.
	d := tracker.CanSendMessage(10, s)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonTokenLimit, d.Reason)
}

func TestRecord_DoesNotRestartRunningCooldown(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(DefaultPolicy()).WithClock(fixedClock(now))

	ends := now.Add(30 * time.Minute)
	s := tracker.Record(DailySnapshot{TokensUsed: 100000, CooldownEndsAt: &ends}, 500)
	assert.Equal(t, ends, *s.CooldownEndsAt)
}

func TestRecord_UnderBudgetNoCooldown(t *testing.T) {
	tracker := NewTracker(DefaultPolicy())

	s := tracker.Record(DailySnapshot{TokensUsed: 50000}, 1000)
	assert.Equal(t, 51000, s.TokensUsed)
	assert.Nil(t, s.CooldownEndsAt)
}

func TestSettle(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(DefaultPolicy()).WithClock(fixedClock(now))

	t.Run("elapsed cooldown resets tokens", func(t *testing.T) {
		ends := now.Add(-1 * time.Second)
		s, changed := tracker.Settle(DailySnapshot{TokensUsed: 100500, CooldownEndsAt: &ends})
		assert.True(t, changed)
		assert.Equal(t, 0, s.TokensUsed)
		assert.Nil(t, s.CooldownEndsAt)
	})

	t.Run("running cooldown untouched", func(t *testing.T) {
		ends := now.Add(1 * time.Hour)
		s, changed := tracker.Settle(DailySnapshot{TokensUsed: 100500, CooldownEndsAt: &ends})
		assert.False(t, changed)
		assert.Equal(t, 100500, s.TokensUsed)
		assert.Equal(t, ends, *s.CooldownEndsAt)
	})

	t.Run("no cooldown is a no-op", func(t *testing.T) {
		s, changed := tracker.Settle(DailySnapshot{TokensUsed: 42})
		assert.False(t, changed)
		assert.Equal(t, 42, s.TokensUsed)
	})
}

func TestStartCooldown_Defensive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(DefaultPolicy()).WithClock(fixedClock(now))

	s := tracker.StartCooldown(DailySnapshot{TokensUsed: 12000})
	if assert.NotNil(t, s.CooldownEndsAt) {
		assert.Equal(t, now.Add(2*time.Hour), *s.CooldownEndsAt)
	}

	// A second call keeps the original deadline.
	again := tracker.StartCooldown(s)
	assert.Equal(t, *s.CooldownEndsAt, *again.CooldownEndsAt)
}

func TestCanUpload(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker(DefaultPolicy()).WithClock(fixedClock(now))

	t.Run("pdf under limit", func(t *testing.T) {
		d := tracker.CanUpload(1, 0, KindPdf)
		assert.True(t, d.Allowed)
	})

	t.Run("pdf at limit", func(t *testing.T) {
		d := tracker.CanUpload(2, 0, KindPdf)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonDailyLimit, d.Reason)
		assert.Equal(t, 2, d.Limit)
		assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), d.ResetAfter)
	})

	t.Run("kinds are independent", func(t *testing.T) {
		// Two pdfs used up does not touch the image allowance.
		d := tracker.CanUpload(2, 0, KindImage)
		assert.True(t, d.Allowed)

		d = tracker.CanUpload(0, 2, KindImage)
		assert.False(t, d.Allowed)
	})
}
