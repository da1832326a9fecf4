// Package session owns the authenticated session lifecycle: it is created
// when a session starts, supervises the realtime channel while the session
// lives, and is disposed on session end. Nothing here is a process-wide
// singleton; every dependency arrives through the config.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"craftforge/internal/api"
	"craftforge/internal/eventbus"
	"craftforge/internal/notify"
	"craftforge/internal/supervisor"
	logx "craftforge/pkg/logx"
)

type Config struct {
	Client *api.Client

	// Credentials: Token wins when set, otherwise Email/Password are
	// exchanged at Start.
	Token    string
	Email    string
	Password string

	ReconnectDelay   time.Duration
	HandshakeTimeout time.Duration

	Alerter notify.Alerter
	Bus     *eventbus.Bus
	Logger  logx.Logger
}

type Session struct {
	client  *api.Client
	inbox   *notify.Inbox
	channel *notify.Channel
	bus     *eventbus.Bus
	log     logx.Logger

	token    string
	email    string
	password string

	reconnectDelay   time.Duration
	handshakeTimeout time.Duration
	alerter          notify.Alerter

	mu      sync.Mutex
	sup     *supervisor.Supervisor
	user    *api.User
	started bool
}

func New(cfg Config) (*Session, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("session: client is required")
	}
	if strings.TrimSpace(cfg.Token) == "" &&
		(strings.TrimSpace(cfg.Email) == "" || strings.TrimSpace(cfg.Password) == "") {
		return nil, fmt.Errorf("session: token or email+password is required")
	}

	s := &Session{
		client:           cfg.Client,
		bus:              cfg.Bus,
		log:              cfg.Logger,
		token:            strings.TrimSpace(cfg.Token),
		email:            strings.TrimSpace(cfg.Email),
		password:         cfg.Password,
		reconnectDelay:   cfg.ReconnectDelay,
		handshakeTimeout: cfg.HandshakeTimeout,
		alerter:          cfg.Alerter,
	}
	s.inbox = notify.NewInbox(cfg.Client, cfg.Logger)
	return s, nil
}

// Start authenticates, opens the realtime channel under supervision, and
// seeds the inbox. The seed deliberately runs after the channel starts so
// pushes racing the seed exercise the merge instead of being lost.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("session: already started")
	}
	s.started = true
	s.mu.Unlock()

	if err := s.authenticate(ctx); err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return err
	}

	s.channel = notify.NewChannel(notify.ChannelConfig{
		Endpoint:         s.client,
		Inbox:            s.inbox,
		Alerter:          s.alerter,
		Bus:              s.bus,
		Logger:           s.log,
		ReconnectDelay:   s.reconnectDelay,
		HandshakeTimeout: s.handshakeTimeout,
	})

	sup := supervisor.New(ctx, supervisor.WithLogger(s.log))
	sup.Go("session.channel", s.channel.Run)
	s.mu.Lock()
	s.sup = sup
	s.mu.Unlock()

	if err := s.inbox.Seed(ctx); err != nil {
		if !s.log.IsZero() {
			s.log.Warn("inbox seed failed", logx.Err(err))
		}
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.EventSessionStarted, s.User())
	}
	if !s.log.IsZero() {
		s.log.Info("session started", logx.Int("unread", s.inbox.Unread()))
	}
	return nil
}

func (s *Session) authenticate(ctx context.Context) error {
	if s.token != "" {
		s.client.SetToken(s.token)
		user, err := s.client.Me(ctx)
		if err != nil {
			return fmt.Errorf("session: token check: %w", err)
		}
		s.mu.Lock()
		s.user = user
		s.mu.Unlock()
		return nil
	}

	res, err := s.client.Login(ctx, s.email, s.password)
	if err != nil {
		return fmt.Errorf("session: login: %w", err)
	}
	s.mu.Lock()
	s.user = &res.User
	s.mu.Unlock()
	return nil
}

// Resync re-seeds the inbox from the server, correcting any drift the
// incremental counter accumulated. Safe to call at any time while started.
func (s *Session) Resync(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return fmt.Errorf("session: not started")
	}
	if err := s.inbox.Seed(ctx); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.EventResyncCompleted, s.inbox.Unread())
	}
	return nil
}

// Close tears the session down: the channel socket closes, any pending
// reconnect is cancelled, and the channel parks in its terminated state.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	sup := s.sup
	s.sup = nil
	wasStarted := s.started
	s.started = false
	s.mu.Unlock()

	if !wasStarted {
		return nil
	}
	if sup != nil {
		sup.Cancel()
		if err := sup.Wait(ctx); err != nil {
			return fmt.Errorf("session: close: %w", err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.EventSessionStopped, nil)
	}
	if !s.log.IsZero() {
		s.log.Info("session closed")
	}
	return nil
}

func (s *Session) Inbox() *notify.Inbox { return s.inbox }

func (s *Session) Channel() *notify.Channel {
	return s.channel
}

func (s *Session) Client() *api.Client { return s.client }

func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	cp := *s.user
	return &cp
}

// Editor returns the acting user's effective authorization for gating,
// resolving role permissions through the roles resource.
func (s *Session) Editor(ctx context.Context) (isAdmin bool, permissions []string, err error) {
	user := s.User()
	if user == nil {
		return false, nil, fmt.Errorf("session: no user")
	}
	if user.IsAdmin {
		return true, nil, nil
	}
	if user.RoleID == "" {
		return false, nil, nil
	}
	roles, err := s.client.Roles(ctx)
	if err != nil {
		return false, nil, err
	}
	for _, r := range roles {
		if r.ID == user.RoleID {
			return false, r.Permissions, nil
		}
	}
	return false, nil, nil
}
