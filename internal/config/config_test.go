package config

import (
	"testing"
	"time"

	"career-compass-be/internal/constant"

	"github.com/stretchr/testify/assert"
)

func TestLoadQuotaDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, constant.SessionMessageLimit, cfg.Quota.SessionMessageLimit)
	assert.Equal(t, constant.DailyTokenBudget, cfg.Quota.DailyTokenBudget)
	assert.Equal(t, constant.CooldownDuration, cfg.Quota.Cooldown)
	assert.Equal(t, constant.DailyPdfUploadLimit, cfg.Quota.DailyPdfUploads)
	assert.Equal(t, constant.DailyImageUploadLimit, cfg.Quota.DailyImageUploads)
}

func TestLoadQuotaEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_MESSAGE_LIMIT", "10")
	t.Setenv("DAILY_TOKEN_BUDGET", "2000")
	t.Setenv("QUOTA_COOLDOWN", "15m")
	t.Setenv("DAILY_PDF_UPLOAD_LIMIT", "5")
	t.Setenv("DAILY_IMAGE_UPLOAD_LIMIT", "3")

	cfg := Load()

	assert.Equal(t, 10, cfg.Quota.SessionMessageLimit)
	assert.Equal(t, 2000, cfg.Quota.DailyTokenBudget)
	assert.Equal(t, 15*time.Minute, cfg.Quota.Cooldown)
	assert.Equal(t, 5, cfg.Quota.DailyPdfUploads)
	assert.Equal(t, 3, cfg.Quota.DailyImageUploads)
}
