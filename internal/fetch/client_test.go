package fetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetch_ClassifiesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	body, err := NewClient(nil, testLogger()).Fetch(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.True(t, body.IsJSON)

	var decoded struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, body.Decode(&decoded))
	assert.True(t, decoded.OK)
}

func TestFetch_XMLIsAlwaysText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<rss><channel></channel></rss>`))
	}))
	t.Cleanup(srv.Close)

	body, err := NewClient(nil, testLogger()).Fetch(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.False(t, body.IsJSON)
	assert.Contains(t, body.Text(), "<rss>")

	err = body.Decode(&struct{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedPayload))
}

func TestFetch_InvalidJSONBodyIsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{truncated"))
	}))
	t.Cleanup(srv.Close)

	body, err := NewClient(nil, testLogger()).Fetch(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.False(t, body.IsJSON)
}

func TestFetch_SetsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("{}"))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(nil, testLogger()).Fetch(context.Background(), srv.URL, map[string]string{
		"apikey": "k",
		"Accept": "application/json",
	})
	require.NoError(t, err)
	assert.Equal(t, "k", got.Get("apikey"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(nil, testLogger()).Fetch(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(nil, testLogger()).Fetch(context.Background(), url, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetwork))
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(nil, testLogger()).Fetch(ctx, srv.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTimeout))
}
