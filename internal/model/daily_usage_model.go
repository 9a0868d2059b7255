package model

import (
	"time"

	"github.com/google/uuid"
)

// DailyUsage is one row per user per calendar day. A new day gets a fresh
// row at zero, so the token tally never leaks across day boundaries.
type DailyUsage struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_usage_user_day"`
	UsageDate      time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_usage_user_day"`
	TokensUsed     int       `gorm:"not null;default:0"`
	CooldownEndsAt *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (DailyUsage) TableName() string {
	return "daily_usages"
}
