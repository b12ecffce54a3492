package reminder

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []string
	chats []int64
	ch    chan struct{}
}

func newRecordingSender() *recordingSender {
	return &recordingSender{ch: make(chan struct{}, 10)}
}

func (s *recordingSender) Send(chatID int64, text string) {
	s.mu.Lock()
	s.sent = append(s.sent, text)
	s.chats = append(s.chats, chatID)
	s.mu.Unlock()
	s.ch <- struct{}{}
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) waitOne(t *testing.T) {
	t.Helper()
	select {
	case <-s.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("напоминание не сработало")
	}
}

func TestScheduleFiresOnce(t *testing.T) {
	sender := newRecordingSender()
	s := New(sender, zap.NewNop().Sugar())
	defer s.Stop()

	id := s.Schedule(Job{ChatID: 42, FireAt: time.Now().Add(30 * time.Millisecond), Message: "напоминание"})
	require.NotEmpty(t, id)

	sender.waitOne(t)
	time.Sleep(100 * time.Millisecond)

	require.Equal(t, 1, sender.count())
	require.Equal(t, int64(42), sender.chats[0])
	require.Equal(t, "напоминание", sender.sent[0])

	// После срабатывания отменять нечего
	require.False(t, s.Cancel(id))
}

func TestSchedulePastDueFiresImmediately(t *testing.T) {
	sender := newRecordingSender()
	s := New(sender, zap.NewNop().Sugar())
	defer s.Stop()

	s.Schedule(Job{ChatID: 7, FireAt: time.Now().Add(-time.Hour), Message: "просроченное"})

	sender.waitOne(t)
	require.Equal(t, 1, sender.count())
}

func TestCancel(t *testing.T) {
	sender := newRecordingSender()
	s := New(sender, zap.NewNop().Sugar())
	defer s.Stop()

	id := s.Schedule(Job{ChatID: 1, FireAt: time.Now().Add(time.Hour), Message: "отмененное"})
	require.True(t, s.Cancel(id))
	require.False(t, s.Cancel(id))

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0, sender.count())
}

func TestStopCancelsPending(t *testing.T) {
	sender := newRecordingSender()
	s := New(sender, zap.NewNop().Sugar())

	s.Schedule(Job{ChatID: 1, FireAt: time.Now().Add(time.Hour), Message: "a"})
	s.Schedule(Job{ChatID: 2, FireAt: time.Now().Add(time.Hour), Message: "b"})
	s.Stop()

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0, sender.count())
}
