// Package reminder одноразовые напоминания о предстоящем приеме.
package reminder

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender доставляет текст напоминания в чат. Реализуется транспортом.
type Sender interface {
	Send(chatID int64, text string)
}

// Job одно напоминание. Создается конвейером записи после успешной
// отправки заявки в CRM и срабатывает ровно один раз.
type Job struct {
	ChatID  int64
	FireAt  time.Time
	Message string
}

// Scheduler держит таймеры напоминаний в памяти процесса.
// Напоминания не переживают перезапуск.
type Scheduler struct {
	mu     sync.Mutex
	sender Sender
	timers map[string]*time.Timer
	log    *zap.SugaredLogger
}

func New(sender Sender, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		sender: sender,
		timers: make(map[string]*time.Timer),
		log:    log,
	}
}

// Schedule регистрирует напоминание и возвращает его идентификатор.
// Если время уже прошло, напоминание срабатывает немедленно.
func (s *Scheduler) Schedule(job Job) string {
	id := uuid.NewString()

	delay := time.Until(job.FireAt)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	s.timers[id] = time.AfterFunc(delay, func() {
		s.fire(id, job)
	})
	s.mu.Unlock()

	s.log.Debugw("напоминание запланировано", "id", id, "chat_id", job.ChatID, "fire_at", job.FireAt)
	return id
}

func (s *Scheduler) fire(id string, job Job) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()

	s.log.Infow("отправка напоминания", "id", id, "chat_id", job.ChatID)
	s.sender.Send(job.ChatID, job.Message)
}

// Cancel отменяет напоминание, если оно еще не сработало.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	return timer.Stop()
}

// Stop останавливает все незавершенные таймеры при выключении бота.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}
