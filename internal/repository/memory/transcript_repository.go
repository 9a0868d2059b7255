package memory

import (
	"time"

	"career-compass-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// TranscriptRepository keeps the in-memory transcript of recently active
// sessions. Entries expire after an hour of inactivity; the durable rows
// in Postgres remain the source of truth.
type TranscriptRepository struct {
	cache *cache.Cache
}

func NewTranscriptRepository() *TranscriptRepository {
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TranscriptRepository{
		cache: c,
	}
}

func (r *TranscriptRepository) Save(t *store.Transcript) {
	r.cache.Set(t.SessionID, t, cache.DefaultExpiration)
}

func (r *TranscriptRepository) Get(sessionID string) (*store.Transcript, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Transcript), true
	}
	return nil, false
}

func (r *TranscriptRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
