package history

import (
	"context"
	"sync"
	"time"
)

type sessionData struct {
	words       []string
	lastTouched time.Time
}

// MemoryStore потокобезопасное in-memory хранилище истории с TTL.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]sessionData
	ttl      time.Duration
	maxWords int
	now      func() time.Time
}

// NewMemoryStore создаёт хранилище. При ttl == 0 сессии не истекают,
// при maxWords <= 0 длина истории не ограничена.
func NewMemoryStore(ttl time.Duration, maxWords int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]sessionData),
		ttl:      ttl,
		maxWords: maxWords,
		now:      time.Now,
	}
}

// Words использует ленивую очистку: истекшая сессия удаляется при чтении.
func (s *MemoryStore) Words(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if s.expired(data, s.now()) {
		delete(s.sessions, sessionID)
		return nil, nil
	}

	words := make([]string, len(data.words))
	copy(words, data.words)
	return words, nil
}

func (s *MemoryStore) Add(ctx context.Context, sessionID string, word string) error {
	if word == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	data, ok := s.sessions[sessionID]
	if !ok || s.expired(data, now) {
		data = sessionData{}
	}

	data.words = append(data.words, word)
	if s.maxWords > 0 && len(data.words) > s.maxWords {
		// Храним только последние maxWords слов.
		data.words = append([]string(nil), data.words[len(data.words)-s.maxWords:]...)
	}
	data.lastTouched = now
	s.sessions[sessionID] = data
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// ClearExpired удаляет все сессии, у которых истёк TTL относительно now.
// Возвращает количество удалённых сессий.
func (s *MemoryStore) ClearExpired(ctx context.Context, now time.Time) (int, error) {
	if s.ttl == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int
	for id, data := range s.sessions {
		if s.expired(data, now) {
			delete(s.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) expired(data sessionData, now time.Time) bool {
	return s.ttl > 0 && now.Sub(data.lastTouched) > s.ttl
}
