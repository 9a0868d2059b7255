package entity

import (
	"time"

	"github.com/google/uuid"
)

type DailyUsage struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	UsageDate      time.Time
	TokensUsed     int
	CooldownEndsAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
