package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRecord() Record {
	return Record{
		FullName:      "Ivanov Ivan",
		DateOfBirth:   "1990-05-02",
		PreferredTime: "2024-06-01 10:00",
		Platform:      "telegram",
	}
}

func TestSubmitSuccess(t *testing.T) {
	var got Record
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, zap.NewNop().Sugar())
	ok, err := client.Submit(context.Background(), testRecord())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, testRecord(), got)
}

func TestSubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, zap.NewNop().Sugar())
	ok, err := client.Submit(context.Background(), testRecord())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSubmitUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, zap.NewNop().Sugar())
	ok, err := client.Submit(context.Background(), testRecord())
	require.Error(t, err)
	require.False(t, ok)
}

func TestSubmitContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(server.URL, zap.NewNop().Sugar())
	ok, err := client.Submit(ctx, testRecord())
	require.Error(t, err)
	require.False(t, ok)
}
