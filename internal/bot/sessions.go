package bot

import (
	"sync"
	"time"

	"saavnbot/internal/model"
)

const (
	// sessionTTL bounds how long a search result list stays selectable.
	sessionTTL = 10 * time.Minute

	// maxSessions caps memory held for idle chats.
	maxSessions = 1000
)

type session struct {
	results []model.SongSummary
	created time.Time
}

// sessionStore holds per-chat search results between the search message
// and the user's selection. Entries expire after sessionTTL; when the
// store is full the oldest entry is evicted.
type sessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[int64]*session
}

func newSessionStore(ttl time.Duration, max int) *sessionStore {
	return &sessionStore{
		ttl:     ttl,
		max:     max,
		entries: make(map[int64]*session),
	}
}

func (s *sessionStore) put(chatID int64, results []model.SongSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, entry := range s.entries {
		if now.Sub(entry.created) > s.ttl {
			delete(s.entries, id)
		}
	}

	if _, exists := s.entries[chatID]; !exists && len(s.entries) >= s.max {
		var oldestID int64
		var oldest time.Time
		first := true
		for id, entry := range s.entries {
			if first || entry.created.Before(oldest) {
				oldestID, oldest, first = id, entry.created, false
			}
		}
		delete(s.entries, oldestID)
	}

	s.entries[chatID] = &session{results: results, created: now}
}

func (s *sessionStore) get(chatID int64) ([]model.SongSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[chatID]
	if !ok {
		return nil, false
	}
	if time.Since(entry.created) > s.ttl {
		delete(s.entries, chatID)
		return nil, false
	}
	return entry.results, true
}

func (s *sessionStore) clear(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, chatID)
}
