package transcript

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neurolearn/neurosched/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.TranscriptConfig{
		BaseURL:        srv.URL,
		Language:       "en",
		TimeoutSeconds: 5,
		Retries:        2,
	})
}

func TestFetch_ParsesTrack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "abc123", r.URL.Query().Get("v"))
		require.Equal(t, "en", r.URL.Query().Get("lang"))
		w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?><transcript><text start="0.5" dur="2.1">Hello &amp; welcome</text><text start="2.6" dur="3.0">to the lecture</text></transcript>`))
	})

	segments, err := client.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, segments, 2)
	require.Equal(t, "Hello & welcome", segments[0].Text)
	require.Equal(t, 0.5, segments[0].Start)
	require.Equal(t, "to the lecture", segments[1].Text)
}

func TestFetch_EmptyBodyMeansNoCaptions(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.Fetch(context.Background(), "abc123")
	require.ErrorIs(t, err, ErrNotAvailable)
}

func TestFetch_NotFoundIsNotRetried(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Fetch(context.Background(), "abc123")
	require.ErrorIs(t, err, ErrNotAvailable)
	require.Equal(t, 1, calls)
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`<transcript><text start="0" dur="1">ok</text></transcript>`))
	})

	segments, err := client.Fetch(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	require.Equal(t, 2, calls)
}
