package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:         baseURL,
		APIKey:          "key 1",
		ServiceToken:    "service-token",
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		RequestTimeout:  time.Second,
	}, nil, zerolog.Nop())
}

func TestClient_UpsertUsers(t *testing.T) {
	var got map[string]map[string]User
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "key 1", r.URL.Query().Get("api_key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "jwt", r.Header.Get("stream-auth-type"))
		assert.Equal(t, "service-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := newTestClient(server.URL+"/").UpsertUsers(context.Background(), User{
		ID:     "s1",
		Name:   "Ada Obi",
		Role:   "user",
		Custom: map[string]any{"color": "teal"},
	})
	require.NoError(t, err)

	require.Contains(t, got["users"], "s1")
	u := got["users"]["s1"]
	assert.Equal(t, "s1", u.ID)
	assert.Equal(t, "Ada Obi", u.Name)
	assert.Equal(t, "user", u.Role)
	assert.Equal(t, "teal", u.Custom["color"])
}

func TestClient_UpsertUsers_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpsertUsers(context.Background(), User{ID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_UpsertUsers_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpsertUsers(context.Background(), User{ID: "s1"})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_UpsertUsers_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"bad api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpsertUsers(context.Background(), User{ID: "s1"})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "bad api key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Config{}, nil, zerolog.Nop())
	assert.Equal(t, DefaultBaseURL, c.config.BaseURL)
	assert.Equal(t, uint(3), c.config.MaxAttempts)
	assert.NotNil(t, c.httpClient)
}
