package session

import (
	"context"
	"sync"
	"time"

	"github.com/QuickWebMaster/mediva-bot/internal/models"
)

// Store хранилище сессий диалогов, ключ — идентификатор чата.
// Get лениво создает сессию при первом обращении.
type Store interface {
	Get(ctx context.Context, chatID int64) (*models.Session, error)
	Upsert(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, chatID int64) error
}

// MemoryStore хранит сессии в памяти процесса. Сессии живут до
// перезапуска; для долговременного хранения используется Mongo-вариант.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*models.Session),
	}
}

func (s *MemoryStore) Get(ctx context.Context, chatID int64) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		return sess, nil
	}
	sess := models.NewSession(chatID)
	s.sessions[chatID] = sess
	return sess, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now()
	s.sessions[session.ChatID] = session
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
	return nil
}
