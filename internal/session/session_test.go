package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"craftforge/internal/api"
	"craftforge/internal/notify"
	logx "craftforge/pkg/logx"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type backend struct {
	srv      *httptest.Server
	wsConns  atomic.Int32
	meCalls  atomic.Int32
	loggedIn atomic.Bool
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		b.meCalls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u1","email":"usta@atolye.com","is_admin":true}`))
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.loggedIn.Store(true)
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","user":{"id":"u1","is_admin":true}}`))
	})
	mux.HandleFunc("/api/notifications", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"n1","title":"T","message":"M","is_read":false}]`))
	})
	mux.HandleFunc("/api/notifications/unread-count", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":1}`))
	})
	mux.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		b.wsConns.Add(1)
		// hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				_ = conn.Close()
				return
			}
		}
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func newSession(t *testing.T, b *backend, cfg Config) *Session {
	t.Helper()
	client, err := api.New(api.Config{BaseURL: b.srv.URL})
	require.NoError(t, err)
	cfg.Client = client
	cfg.Logger = logx.Nop()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestNewRequiresCredentials(t *testing.T) {
	t.Parallel()

	client, err := api.New(api.Config{BaseURL: "http://localhost:1"})
	require.NoError(t, err)

	_, err = New(Config{Client: client})
	require.Error(t, err)

	_, err = New(Config{Client: client, Email: "usta@atolye.com"})
	require.Error(t, err)

	_, err = New(Config{Token: "tok"})
	require.Error(t, err)
}

func TestStartWithToken(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	s := newSession(t, b, Config{Token: "tok", ReconnectDelay: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	user := s.User()
	require.NotNil(t, user)
	require.Equal(t, "u1", user.ID)
	require.True(t, user.IsAdmin)

	// seeded state
	require.Equal(t, 1, s.Inbox().Unread())
	require.Len(t, s.Inbox().List(), 1)

	require.Eventually(t, func() bool { return b.wsConns.Load() >= 1 },
		2*time.Second, 10*time.Millisecond, "channel never connected")

	require.Error(t, s.Start(ctx), "second Start must fail")

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer closeCancel()
	require.NoError(t, s.Close(closeCtx))
	require.Equal(t, notify.StateTerminated, s.Channel().State())

	// Close again is a no-op
	require.NoError(t, s.Close(closeCtx))
}

func TestStartWithLogin(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	s := newSession(t, b, Config{Email: "usta@atolye.com", Password: "parola", ReconnectDelay: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	require.True(t, b.loggedIn.Load())
	require.Equal(t, "tok", s.Client().Token())

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer closeCancel()
	require.NoError(t, s.Close(closeCtx))
}

func TestStartFailsOnBadToken(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	s := newSession(t, b, Config{Token: "wrong"})

	err := s.Start(context.Background())
	require.Error(t, err)
	require.True(t, api.IsUnauthorized(err))

	// a failed Start leaves the session restartable
	s2 := newSession(t, b, Config{Token: "tok"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s2.Start(ctx))
	closeCtx, closeCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer closeCancel()
	require.NoError(t, s2.Close(closeCtx))
}

func TestResync(t *testing.T) {
	t.Parallel()

	b := newBackend(t)
	s := newSession(t, b, Config{Token: "tok", ReconnectDelay: 50 * time.Millisecond})

	require.Error(t, s.Resync(context.Background()), "resync before start must fail")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Resync(ctx))
	require.Equal(t, 1, s.Inbox().Unread())

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer closeCancel()
	require.NoError(t, s.Close(closeCtx))
}
