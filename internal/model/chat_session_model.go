package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatSession struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title         string    `gorm:"type:text;not null"`
	Category      string    `gorm:"type:varchar(32);not null;default:'general'"`
	MessageCount  int       `gorm:"not null;default:0"` // Exchanges (user+assistant pairs)
	LastMessageAt *time.Time
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
