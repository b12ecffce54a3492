package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/QuickWebMaster/mediva-bot/internal/models"
)

func TestGetCreatesSessionLazily(t *testing.T) {
	store := NewMemoryStore()

	sess, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, int64(42), sess.ChatID)
	require.Equal(t, models.DefaultLanguage, sess.Language)
	require.Equal(t, models.StateAwaitingLanguage, sess.State)
	require.NotNil(t, sess.PendingFields)
}

func TestGetReturnsSameSession(t *testing.T) {
	store := NewMemoryStore()

	first, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	first.State = models.StateReady
	require.NoError(t, store.Upsert(context.Background(), first))

	second, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, models.StateReady, second.State)
}

func TestSessionsIndependentPerChat(t *testing.T) {
	store := NewMemoryStore()

	a, _ := store.Get(context.Background(), 1)
	a.Language = models.LangEN
	require.NoError(t, store.Upsert(context.Background(), a))

	b, _ := store.Get(context.Background(), 2)
	require.Equal(t, models.DefaultLanguage, b.Language)
}

func TestDelete(t *testing.T) {
	store := NewMemoryStore()

	sess, _ := store.Get(context.Background(), 42)
	sess.State = models.StateReady
	require.NoError(t, store.Upsert(context.Background(), sess))
	require.NoError(t, store.Delete(context.Background(), 42))

	fresh, err := store.Get(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, models.StateAwaitingLanguage, fresh.State)
}
