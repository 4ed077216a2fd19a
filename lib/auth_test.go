package lib

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	creds := Credentials{Username: "user", Email: "user@example.com", Password: "secret"}

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, loginPath, r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body loginRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, loginRequest{Username: "user", Email: "user@example.com", Password: "secret"}, body)

			w.Write([]byte(`{"token": "session-token"}`))
		}))
		defer server.Close()

		session, err := NewAuthenticator(nil, server.URL+"/").Login(context.Background(), creds)
		require.NoError(t, err)
		assert.Equal(t, "session-token", session.Token)
	})

	t.Run("MissingCredentialsSkipNetwork", func(t *testing.T) {
		var requests int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
		}))
		defer server.Close()

		_, err := NewAuthenticator(nil, server.URL).Login(context.Background(), Credentials{Username: "user", Password: "secret"})
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, []string{"TWITTER_EMAIL"}, cfgErr.Missing)
		assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
	})

	t.Run("Rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := NewAuthenticator(nil, server.URL).Login(context.Background(), creds)
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	})

	t.Run("EmptyToken", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := NewAuthenticator(nil, server.URL).Login(context.Background(), creds)
		assert.Error(t, err)
	})

	t.Run("MalformedResponse", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := NewAuthenticator(nil, server.URL).Login(context.Background(), creds)
		assert.Error(t, err)
	})
}

func TestClientGetPost(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, showStatusPath, r.URL.Path)
			assert.Equal(t, "1850000000000000001", r.URL.Query().Get("id"))
			assert.Equal(t, "extended", r.URL.Query().Get("tweet_mode"))
			assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(plainStatus))
		}))
		defer server.Close()

		c := NewClient(nil, server.URL, &Session{Token: "session-token"})
		remote, err := c.GetPost(context.Background(), "1850000000000000001")
		require.NoError(t, err)
		require.NotNil(t, remote.ID)
		assert.Equal(t, "1850000000000000001", *remote.ID)
		require.NotNil(t, remote.User)
		assert.Equal(t, "mldaily", *remote.User.ScreenName)
		assert.Len(t, remote.Entities.URLs, 1)
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewClient(nil, server.URL, nil).GetPost(context.Background(), "1")
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id_str": 5`))
		}))
		defer server.Close()

		_, err := NewClient(nil, server.URL, nil).GetPost(context.Background(), "1")
		assert.Error(t, err)
	})
}
