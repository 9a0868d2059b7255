package entity

import (
	"time"

	"github.com/google/uuid"
)

type UploadRecord struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	ChatSessionId *uuid.UUID
	Kind          string
	FileName      string
	StoredPath    string
	PublicURL     string
	SizeBytes     int64
	Metadata      map[string]interface{}
	CreatedAt     time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
