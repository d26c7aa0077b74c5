package session

import (
	"context"
	"sync"
	"time"

	"github.com/medetbek/taskplanner/internal/metrics"
	"github.com/medetbek/taskplanner/internal/security"
)

type entry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore is the dev/test session table: a mutex-guarded map with a
// background sweep for expired entries.
type MemoryStore struct {
	mu   sync.Mutex
	m    map[string]entry
	ttl  time.Duration
	stop chan struct{}
	once sync.Once
}

func NewMemory(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{m: make(map[string]entry), ttl: ttl, stop: make(chan struct{})}
	go s.sweep()
	return s
}

func (s *MemoryStore) sweep() {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-t.C:
			s.mu.Lock()
			for tok, e := range s.m {
				if now.After(e.expiresAt) {
					delete(s.m, tok)
				}
			}
			metrics.SessionsActive.Set(float64(len(s.m)))
			s.mu.Unlock()
		}
	}
}

func (s *MemoryStore) Create(ctx context.Context, userID string) (string, error) {
	tok, err := security.NewSessionToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.m[tok] = entry{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	metrics.SessionsActive.Set(float64(len(s.m)))
	s.mu.Unlock()
	return tok, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[token]
	if !ok || time.Now().After(e.expiresAt) {
		return "", nil
	}
	return e.userID, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	metrics.SessionsActive.Set(float64(len(s.m)))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}
