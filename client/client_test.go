package client_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/savvy-app/savvy/client"
	"github.com/savvy-app/savvy/store"
	"github.com/savvy-app/savvy/store/db/memory"
)

func newTestSession(t *testing.T) (*client.Session, *store.Store) {
	t.Helper()
	s := store.New(memory.NewDB())
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return client.NewSession(s), s
}

func newTestClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()
	session, _ := newTestSession(t)
	return client.New(client.Config{BaseURL: baseURL, Session: session})
}

func TestRequestHeaders(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx := t.Context()
	session, _ := newTestSession(t)
	session.SetToken(ctx, "secret-token")
	c := client.New(client.Config{BaseURL: server.URL, Session: session})

	_, err := c.Get(ctx, "/api/profile")
	require.NoError(t, err)

	require.Equal(t, "application/json", captured.Get("Content-Type"))
	require.Equal(t, "Bearer secret-token", captured.Get("Authorization"))
	require.NotEmpty(t, captured.Get("X-Request-ID"))
	require.NotEmpty(t, captured.Get("X-Device-ID"))
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Get(t.Context(), "/api/profile")
	require.NoError(t, err)
	require.Empty(t, captured.Get("Authorization"))
}

func TestDeviceIDStableAcrossRequests(t *testing.T) {
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Device-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	ctx := t.Context()
	_, err := c.Get(ctx, "/a")
	require.NoError(t, err)
	_, err = c.Get(ctx, "/b")
	require.NoError(t, err)

	require.Len(t, ids, 2)
	require.NotEmpty(t, ids[0])
	require.Equal(t, ids[0], ids[1])
}

func TestDecodeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","name":"Dasha"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	result, err := c.Get(t.Context(), "/api/profile")
	require.NoError(t, err)
	require.True(t, result.JSON)

	var user client.User
	require.NoError(t, result.Decode(&user))
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "Dasha", user.Name)
}

func TestErrorResponseUsesErrorField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Invalid amount"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	result, err := c.Post(t.Context(), "/api/expenses", map[string]int{"amount": -5})
	require.Nil(t, result)
	require.Error(t, err)

	info, ok := client.AsErrorInfo(err)
	require.True(t, ok)
	require.Equal(t, "Invalid amount", info.Message)
	require.Equal(t, http.StatusBadRequest, info.Status)
}

func TestErrorResponseFallsBackToMessageField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"User not found"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Get(t.Context(), "/api/profile")
	info, ok := client.AsErrorInfo(err)
	require.True(t, ok)
	require.Equal(t, "User not found", info.Message)
	require.Equal(t, http.StatusNotFound, info.Status)
}

func TestErrorResponseGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"boom"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Get(t.Context(), "/api/expenses")
	info, ok := client.AsErrorInfo(err)
	require.True(t, ok)
	require.Equal(t, "Request failed", info.Message)
}

func TestInvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"broken":`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	result, err := c.Get(t.Context(), "/api/posts")
	require.Nil(t, result)

	info, ok := client.AsErrorInfo(err)
	require.True(t, ok)
	require.Equal(t, "invalid JSON response from server", info.Message)
	require.Equal(t, http.StatusOK, info.Status)
	require.NotEmpty(t, info.OriginalError)
}

func TestNonJSONBodyReturnedAsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	result, err := c.Get(t.Context(), "/ping")
	require.NoError(t, err)
	require.False(t, result.JSON)
	require.Equal(t, "pong", string(result.Body))
}

func TestEmptyBodyNonSuccessTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	// Default behavior: the empty-body tolerance wins over the status check.
	c := newTestClient(t, server.URL)
	result, err := c.Delete(t.Context(), "/api/expenses/1")
	require.NoError(t, err)
	require.True(t, result.JSON)
	require.Equal(t, "{}", string(result.Body))
}

func TestEmptyBodyNonSuccessStrict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	session, _ := newTestSession(t)
	c := client.New(client.Config{BaseURL: server.URL, Session: session, StrictStatus: true})

	result, err := c.Delete(t.Context(), "/api/expenses/1")
	require.Nil(t, result)

	info, ok := client.AsErrorInfo(err)
	require.True(t, ok)
	require.Equal(t, "Request failed", info.Message)
	require.Equal(t, http.StatusInternalServerError, info.Status)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	session, _ := newTestSession(t)
	c := client.New(client.Config{BaseURL: server.URL, Session: session, Timeout: 50 * time.Millisecond})

	start := time.Now()
	result, err := c.Get(t.Context(), "/api/expenses")
	require.Nil(t, result)
	require.Less(t, time.Since(start), 5*time.Second, "timeout must not hang")

	info, ok := client.AsErrorInfo(err)
	require.True(t, ok)
	require.Contains(t, info.Message, "Request timeout")
	require.Equal(t, 0, info.Status)
	require.NotEmpty(t, info.OriginalError)
}

func TestConnectionFailureNamesBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	c := newTestClient(t, baseURL)
	_, err := c.Get(t.Context(), "/api/expenses")

	info, ok := client.AsErrorInfo(err)
	require.True(t, ok)
	require.Contains(t, info.Message, baseURL)
	require.Equal(t, 0, info.Status)
}
