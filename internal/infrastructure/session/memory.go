package session

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/catalogo-admin/internal/domain"
	"github.com/jhoicas/catalogo-admin/internal/domain/repository"
)

var _ repository.SessionStore = (*MemoryStore)(nil)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore almacén de sesiones en proceso. Se pierde al reiniciar.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore crea un almacén vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Set(_ context.Context, sid, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = memoryEntry{token: token, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sid]
	if !ok {
		return "", domain.ErrNoSession
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, sid)
		return "", domain.ErrNoSession
	}
	return e.token, nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}

// PurgeExpired elimina las sesiones vencidas.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for sid, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, sid)
			n++
		}
	}
	return n, nil
}
