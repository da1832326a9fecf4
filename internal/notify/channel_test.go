package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	logx "craftforge/pkg/logx"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func testLogger() logx.Logger { return logx.Nop() }

type staticEndpoint string

func (s staticEndpoint) WSEndpoint() (string, error) { return string(s), nil }

func wsURL(srv *httptest.Server, token string) staticEndpoint {
	return staticEndpoint("ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + token)
}

var upgrader = websocket.Upgrader{}

func TestChannelDeliversNotification(t *testing.T) {
	t.Parallel()

	frames := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/ws/"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for msg := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	inbox := NewInbox(&fakeNotificationAPI{}, testLogger())
	alerts := make(chan Alert, 4)

	ch := NewChannel(ChannelConfig{
		Endpoint:       wsURL(srv, "tok"),
		Inbox:          inbox,
		Alerter:        AlerterFunc(func(title, message string) { alerts <- Alert{Title: title, Message: message} }),
		Logger:         testLogger(),
		ReconnectDelay: 50 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- ch.Run(ctx) }()

	frames <- `{"type":"notification","data":{"id":"n1","title":"T","message":"M"}}`

	select {
	case al := <-alerts:
		require.Equal(t, "T", al.Title)
		require.Equal(t, "M", al.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("no alert received")
	}

	list := inbox.List()
	require.Len(t, list, 1)
	require.Equal(t, "n1", list[0].ID)
	require.Equal(t, 1, inbox.Unread())

	// one message, one insertion, one increment
	frames <- `{"type":"notification","data":{"id":"n1","title":"T","message":"M"}}`
	frames <- `{"type":"notification","data":{"id":"n2","title":"T2","message":"M2"}}`
	select {
	case <-alerts:
	case <-time.After(2 * time.Second):
		t.Fatal("no alert for n2")
	}
	require.Len(t, inbox.List(), 2)
	require.Equal(t, 2, inbox.Unread())
	require.Equal(t, "n2", inbox.List()[0].ID)

	close(frames)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestChannelIgnoresOtherTypesAndMalformed(t *testing.T) {
	t.Parallel()

	inbox := NewInbox(&fakeNotificationAPI{}, testLogger())
	var alertCount atomic.Int32
	ch := NewChannel(ChannelConfig{
		Endpoint: staticEndpoint("unused"),
		Inbox:    inbox,
		Alerter:  AlerterFunc(func(string, string) { alertCount.Add(1) }),
		Logger:   testLogger(),
	})

	ch.handle([]byte(`{"type":"ping","data":{}}`))
	ch.handle([]byte(`not json at all`))
	ch.handle([]byte(`{"type":"notification","data":"not an object"}`))
	ch.handle([]byte(`{"type":"notification","data":{"title":"no id"}}`))

	require.Empty(t, inbox.List())
	require.Zero(t, inbox.Unread())
	require.Zero(t, alertCount.Load())
}

func TestChannelReconnectsWithFixedDelay(t *testing.T) {
	t.Parallel()

	var conns atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns.Add(1)
		// drop immediately; the client schedules one reconnect per drop
		conn.Close()
	}))
	defer srv.Close()

	inbox := NewInbox(&fakeNotificationAPI{}, testLogger())
	ch := NewChannel(ChannelConfig{
		Endpoint:       wsURL(srv, "tok"),
		Inbox:          inbox,
		Logger:         testLogger(),
		ReconnectDelay: 30 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ch.Run(ctx) }()

	require.Eventually(t, func() bool { return conns.Load() >= 3 },
		2*time.Second, 10*time.Millisecond, "expected repeated reconnects")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.Equal(t, StateTerminated, ch.State())

	// no reconnects after session end
	settled := conns.Load()
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, settled, conns.Load())
}

func TestChannelStateString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		state State
		want  string
	}{
		{StateDisconnected, "disconnected"},
		{StateConnecting, "connecting"},
		{StateConnected, "connected"},
		{StateTerminated, "terminated"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}
