// Package resync periodically re-seeds notification state from the server.
// The live channel keeps the inbox current; this service is the scheduled
// reconciliation that corrects counter drift on long-lived sessions.
package resync

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	logx "craftforge/pkg/logx"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Enabled  bool
	Schedule string
	Timezone string
}

// Runner is the session-shaped dependency invoked on each tick.
type Runner interface {
	Resync(ctx context.Context) error
}

type Service struct {
	runner Runner
	log    logx.Logger
	parser cron.Parser

	mu        sync.Mutex
	cfg       Config
	c         *cron.Cron
	runCtx    context.Context
	runCancel context.CancelFunc
}

func New(cfg Config, runner Runner, log logx.Logger) *Service {
	return &Service{
		cfg:    cfg,
		runner: runner,
		log:    log,
		// SecondOptional allows both 5-field and 6-field cron specs.
		parser: cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Apply swaps the config at runtime; a running schedule is restarted when
// anything changed.
func (s *Service) Apply(ctx context.Context, cfg Config) error {
	s.mu.Lock()
	same := s.cfg == cfg
	running := s.c != nil
	s.cfg = cfg
	s.mu.Unlock()

	if same {
		return nil
	}
	if running {
		s.Stop(ctx)
	}
	return s.Start(ctx)
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c != nil {
		return nil
	}
	if !s.cfg.Enabled {
		if !s.log.IsZero() {
			s.log.Debug("resync disabled")
		}
		return nil
	}

	spec := strings.TrimSpace(s.cfg.Schedule)
	if spec == "" {
		return fmt.Errorf("resync: schedule is required")
	}
	if _, err := s.parser.Parse(spec); err != nil {
		return fmt.Errorf("resync: schedule %q: %w", spec, err)
	}

	loc := time.Local
	if tz := strings.TrimSpace(s.cfg.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("resync: timezone %q: %w", tz, err)
		}
		loc = l
	}

	s.runCtx, s.runCancel = context.WithCancel(ctx)
	runCtx := s.runCtx

	c := cron.New(cron.WithParser(s.parser), cron.WithLocation(loc))
	if _, err := c.AddFunc(spec, func() { s.tick(runCtx) }); err != nil {
		s.runCancel()
		s.runCtx, s.runCancel = nil, nil
		return fmt.Errorf("resync: register: %w", err)
	}
	c.Start()
	s.c = c

	if !s.log.IsZero() {
		s.log.Info("resync started", logx.String("schedule", spec), logx.String("tz", loc.String()))
	}
	return nil
}

func (s *Service) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil && !s.log.IsZero() {
			s.log.Error("panic in resync", logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
		}
	}()

	started := time.Now()
	if err := s.runner.Resync(ctx); err != nil {
		if !s.log.IsZero() {
			s.log.Warn("resync failed", logx.Err(err))
		}
		return
	}
	if !s.log.IsZero() {
		s.log.Debug("resync done", logx.Duration("took", time.Since(started)))
	}
}

// Stop halts the schedule and waits (bounded by ctx) for an in-flight tick.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	cancel := s.runCancel
	s.c = nil
	s.runCtx, s.runCancel = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
	if !s.log.IsZero() {
		s.log.Info("resync stopped")
	}
}
