package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UploadRecord is written only after the file is confirmed stored. Daily
// per-kind counts are derived by counting rows, not kept as counters.
type UploadRecord struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	ChatSessionId *uuid.UUID `gorm:"type:uuid;index"`
	Kind          string     `gorm:"type:varchar(20);not null;index"`
	FileName      string     `gorm:"type:varchar(255);not null"`
	StoredPath    string     `gorm:"type:text;not null"`
	PublicURL     string     `gorm:"type:text;not null"`
	SizeBytes     int64      `gorm:"not null"`
	Metadata      datatypes.JSON
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (UploadRecord) TableName() string {
	return "upload_records"
}
