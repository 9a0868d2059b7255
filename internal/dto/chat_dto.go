package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendChatRequest struct {
	SessionId *uuid.UUID `json:"session_id"`
	Message   string     `json:"message" validate:"required,min=1,max=8000"`
	Category  string     `json:"category"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatResponse struct {
	SessionId uuid.UUID           `json:"session_id"`
	Title     string              `json:"title"`
	Sent      ChatMessageResponse `json:"sent"`
	Reply     ChatMessageResponse `json:"reply"`
	Usage     UsageStatusResponse `json:"usage"`
}

type ChatSessionResponse struct {
	Id            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Category      string     `json:"category"`
	MessageCount  int        `json:"message_count"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SessionGroup buckets sessions by recency for the sidebar listing.
type SessionGroup struct {
	Label    string                `json:"label"`
	Sessions []ChatSessionResponse `json:"sessions"`
}

type ListSessionsResponse struct {
	Groups []SessionGroup `json:"groups"`
	Total  int64          `json:"total"`
}

type TranscriptEntryResponse struct {
	Id        *uuid.UUID `json:"id,omitempty"`
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Pending   bool       `json:"pending"`
	CreatedAt time.Time  `json:"created_at"`
}

type TranscriptResponse struct {
	SessionId uuid.UUID                 `json:"session_id"`
	Title     string                    `json:"title"`
	Messages  []TranscriptEntryResponse `json:"messages"`
}

// RefineTitleMessage is the async job asking for a better session title
// once the first exchange exists.
type RefineTitleMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}

type RenameSessionRequest struct {
	Title string `json:"title" validate:"required,min=1,max=120"`
}
