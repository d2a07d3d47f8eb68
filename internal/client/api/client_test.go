package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin_KeepsTokenForLaterCalls(t *testing.T) {
	var gotAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-123",
			"user":  map[string]any{"id": 1, "username": "alice", "email": "alice@example.com"},
		})
	})
	mux.HandleFunc("/api/history/Nutrigenie", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"entries": []any{}})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	user, err := c.Login(ctx, "alice@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.True(t, c.LoggedIn())

	_, err = c.History(ctx, "Nutrigenie")
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDoJSON_UnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.History(context.Background(), "Nutrigenie")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestDoJSON_ServerErrorMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "user already exists"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Register(context.Background(), "alice", "alice@example.com", "pw")
	require.ErrorContains(t, err, "user already exists")
}

func TestAsk_FailedDispatchHasNilModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"model_used": nil, "response": "try later"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.Ask(context.Background(), "Nutrigenie", "q", nil, "")
	require.NoError(t, err)
	require.Nil(t, res.ModelUsed)
	require.Equal(t, "try later", res.Response)
}
