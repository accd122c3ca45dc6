package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/z-chat/backend/internal/model/chat"
)

func TestStartChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/startchat", r.URL.Path)
		w.Write([]byte(`{"text":"Hello!"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/api/")
	require.NoError(t, err)

	reply, err := c.StartChat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply.Text)
	assert.Nil(t, reply.Error)
}

func TestChatSendsFullMessage(t *testing.T) {
	var got chat.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"error":"bad"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	msg := chat.NewUserMessage("hi", time.UnixMilli(99))
	reply, err := c.Chat(context.Background(), msg)
	require.NoError(t, err)
	require.NotNil(t, reply.Error)
	assert.Equal(t, "bad", *reply.Error)
	assert.Equal(t, msg, got)
}

func TestStatusCodeIsIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"failed to generate reply"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	reply, err := c.Chat(context.Background(), chat.Message{Text: "hi"})
	require.NoError(t, err)
	require.NotNil(t, reply.Error)
}

func TestNonJSONBodyIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("Internal Server Error"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.StartChat(context.Background())
	assert.ErrorIs(t, err, ErrNotJSON)
}

func TestCookiesArePersisted(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("user_id"); err == nil {
			seen = append(seen, c.Value)
		} else {
			http.SetCookie(w, &http.Cookie{Name: "user_id", Value: "abc", Path: "/"})
		}
		w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.Chat(context.Background(), chat.Message{Text: "hi"})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"abc"}, seen)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL, WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = c.StartChat(context.Background())
	assert.Error(t, err)
}

func TestNewRejectsBadScheme(t *testing.T) {
	_, err := New("ws://localhost:8080")
	assert.Error(t, err)
}

func TestNullErrorFieldIsApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":null}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	reply, err := c.Chat(context.Background(), chat.Message{Text: "hi"})
	require.NoError(t, err)
	require.NotNil(t, reply.Error)
	assert.Equal(t, "null", *reply.Error)
}

func TestWithTimeoutLeavesSharedClientUntouched(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	shared := &http.Client{}
	orders := [][]Option{
		{WithHTTPClient(shared), WithTimeout(20 * time.Millisecond)},
		{WithTimeout(20 * time.Millisecond), WithHTTPClient(shared)},
	}
	for _, opts := range orders {
		c, err := New(srv.URL, opts...)
		require.NoError(t, err)

		_, err = c.StartChat(context.Background())
		assert.Error(t, err)
		assert.Zero(t, shared.Timeout)
	}
}

func TestWithNilHTTPClientUsesDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithHTTPClient(nil), WithTimeout(time.Second))
	require.NoError(t, err)

	reply, err := c.StartChat(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Text)
}
