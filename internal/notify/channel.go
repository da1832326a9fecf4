package notify

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"craftforge/internal/api"
	"craftforge/internal/eventbus"
	logx "craftforge/pkg/logx"

	"github.com/gorilla/websocket"
)

// Endpoint yields the realtime endpoint URL for the current session token.
// It is re-evaluated before every dial so a token refresh takes effect on the
// next attempt.
type Endpoint interface {
	WSEndpoint() (string, error)
}

type ChannelConfig struct {
	Endpoint Endpoint
	Inbox    *Inbox
	Alerter  Alerter
	Bus      *eventbus.Bus
	Logger   logx.Logger

	// ReconnectDelay is the fixed pause between a drop and the next dial.
	// There is no backoff growth and no retry cap while the session lives.
	ReconnectDelay time.Duration

	// HandshakeTimeout bounds each dial attempt.
	HandshakeTimeout time.Duration
}

// Channel owns the single realtime connection of a session. Run drives the
// connect/read/reconnect loop until its context is cancelled, which is the
// session-teardown signal and parks the channel in StateTerminated.
type Channel struct {
	endpoint Endpoint
	inbox    *Inbox
	alerter  Alerter
	bus      *eventbus.Bus
	log      logx.Logger

	delay       time.Duration
	dialTimeout time.Duration

	state atomic.Int32
}

func NewChannel(cfg ChannelConfig) *Channel {
	delay := cfg.ReconnectDelay
	if delay <= 0 {
		delay = 3 * time.Second
	}
	dialTimeout := cfg.HandshakeTimeout
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}
	return &Channel{
		endpoint:    cfg.Endpoint,
		inbox:       cfg.Inbox,
		alerter:     cfg.Alerter,
		bus:         cfg.Bus,
		log:         cfg.Logger,
		delay:       delay,
		dialTimeout: dialTimeout,
	}
}

func (c *Channel) State() State { return State(c.state.Load()) }

func (c *Channel) setState(to State) {
	from := State(c.state.Swap(int32(to)))
	if from == to {
		return
	}
	if !c.log.IsZero() {
		c.log.Debug("channel state", logx.String("from", from.String()), logx.String("to", to.String()))
	}
	if c.bus != nil {
		c.bus.Publish(eventbus.EventChannelState, StateChange{From: from, To: to})
	}
}

// Run blocks until ctx is cancelled. Every connection drop schedules exactly
// one reconnect after the fixed delay; cancelling ctx during the wait or the
// read tears the channel down permanently.
func (c *Channel) Run(ctx context.Context) error {
	defer c.setState(StateTerminated)

	for {
		if ctx.Err() != nil {
			return nil
		}

		c.setState(StateConnecting)
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !c.log.IsZero() {
				c.log.Warn("channel dial failed", logx.Err(err), logx.Duration("retry_in", c.delay))
			}
			c.setState(StateDisconnected)
			if !c.sleep(ctx) {
				return nil
			}
			continue
		}

		c.setState(StateConnected)
		c.read(ctx, conn)
		c.setState(StateDisconnected)

		if ctx.Err() != nil {
			return nil
		}
		if !c.sleep(ctx) {
			return nil
		}
	}
}

func (c *Channel) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := c.endpoint.WSEndpoint()
	if err != nil {
		return nil, err
	}
	dialer := websocket.Dialer{HandshakeTimeout: c.dialTimeout}
	conn, resp, err := dialer.DialContext(ctx, u, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

// read pumps messages until the connection breaks. A watcher goroutine closes
// the socket when ctx is cancelled so ReadMessage unblocks promptly.
func (c *Channel) read(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()
	defer func() { _ = conn.Close() }()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !c.log.IsZero() {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.log.Debug("channel closed by server", logx.Err(err))
				} else {
					c.log.Warn("channel read failed", logx.Err(err))
				}
			}
			return
		}
		c.handle(data)
	}
}

func (c *Channel) handle(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if !c.log.IsZero() {
			c.log.Warn("malformed frame discarded", logx.Err(err))
		}
		return
	}
	if env.Type != "notification" {
		return
	}

	var n api.Notification
	if err := json.Unmarshal(env.Data, &n); err != nil || n.ID == "" {
		if !c.log.IsZero() {
			c.log.Warn("malformed notification discarded", logx.Err(err))
		}
		return
	}

	if !c.inbox.Receive(n) {
		return
	}
	if c.alerter != nil {
		c.alerter.Alert(n.Title, n.Message)
	}
	if c.bus != nil {
		c.bus.Publish(eventbus.EventNotificationReceived, n)
	}
}

// sleep waits out the reconnect delay; false means ctx was cancelled.
func (c *Channel) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
