package dto

import (
	"time"

	"github.com/google/uuid"
)

type UploadResponse struct {
	Id        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	FileName  string    `json:"file_name"`
	SizeBytes int64     `json:"size_bytes"`
	StoredAt  time.Time `json:"stored_at"`
}

type ListUploadsResponse struct {
	Uploads []UploadResponse `json:"uploads"`
	Total   int64            `json:"total"`
}
