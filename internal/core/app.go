// Package core wires the daemon together: config manager, logging service,
// REST client, session, resync schedule and the event bus, all under one
// supervisor.
package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"craftforge/internal/api"
	"craftforge/internal/config"
	"craftforge/internal/eventbus"
	"craftforge/internal/notify"
	"craftforge/internal/resync"
	"craftforge/internal/session"
	"craftforge/internal/supervisor"
	logx "craftforge/pkg/logx"
)

type App struct {
	cfgPath string

	cfgm *config.ConfigManager
	sup  *supervisor.Supervisor

	log  logx.Logger
	logs *logx.Service

	bus    *eventbus.Bus
	client *api.Client
	sess   *session.Session
	rsync  *resync.Service
}

func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewConfigManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))

	bus := eventbus.New()

	client, err := api.New(api.Config{
		BaseURL:    cfg.Server.BaseURL,
		Token:      cfg.Auth.Token,
		Timeout:    cfg.Server.Timeout(),
		RatePerSec: cfg.Server.RatePerSec,
		Burst:      cfg.Server.Burst,
		Logger:     log.With(logx.String("comp", "api")),
	})
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}

	sess, err := session.New(session.Config{
		Client:           client,
		Token:            cfg.Auth.Token,
		Email:            cfg.Auth.Email,
		Password:         cfg.Auth.Password,
		ReconnectDelay:   cfg.Channel.Delay(),
		HandshakeTimeout: cfg.Channel.DialTimeout(),
		Alerter:          notify.NewBusAlerter(bus),
		Bus:              bus,
		Logger:           log.With(logx.String("comp", "session")),
	})
	if err != nil {
		_ = logSvc.Close()
		return nil, err
	}

	rsync := resync.New(resync.Config{
		Enabled:  cfg.Resync.Enabled,
		Schedule: cfg.Resync.Schedule,
		Timezone: cfg.Resync.Timezone,
	}, sess, log.With(logx.String("comp", "resync")))

	return &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		bus:     bus,
		client:  client,
		sess:    sess,
		rsync:   rsync,
	}, nil
}

func (a *App) Session() *session.Session { return a.sess }
func (a *App) Bus() *eventbus.Bus        { return a.bus }

// Done is closed when the app supervisor context is canceled (fatal error or Stop).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log), supervisor.WithCancelOnError(true))

	// transactional config reload: validate before commit/publish
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		return config.Validate(cfg)
	})

	if err := a.sess.Start(a.sup.Context()); err != nil {
		return err
	}

	if err := a.rsync.Start(a.sup.Context()); err != nil {
		return err
	}

	// Surface transient alerts and channel state to the daemon log.
	alerts, cancelAlerts := a.bus.Subscribe("notify.*", 16)
	states, cancelStates := a.bus.Subscribe(eventbus.EventChannelState, 8)
	a.sup.Go0("alerts", func(c context.Context) {
		defer cancelAlerts()
		defer cancelStates()
		for {
			select {
			case <-c.Done():
				return
			case ev, ok := <-alerts:
				if !ok {
					return
				}
				if al, isAlert := ev.Data.(notify.Alert); isAlert {
					a.log.Info("notification", logx.String("title", al.Title), logx.String("message", al.Message))
				}
			case ev, ok := <-states:
				if !ok {
					return
				}
				if sc, isChange := ev.Data.(notify.StateChange); isChange {
					a.log.Info("channel", logx.String("state", sc.To.String()))
				}
			}
		}
	})

	// hot reload config fan-out
	sub := a.cfgm.Subscribe(8)
	a.sup.Go0("config.reload", func(c context.Context) {
		defer a.cfgm.Unsubscribe(sub)
		lastApplied := a.cfgm.Get()
		for {
			select {
			case <-c.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				// Coalesce bursts: keep only the latest config in the channel.
				for {
					select {
					case newer := <-sub:
						if newer != nil {
							newCfg = newer
						}
					default:
						goto APPLY
					}
				}
			APPLY:
				sections, attrs := config.SummarizeConfigChange(lastApplied, newCfg)
				if len(sections) == 0 {
					a.log.Debug("config reload received, but no effective changes detected")
					lastApplied = newCfg
					continue
				}
				lastApplied = newCfg

				a.logs.Apply(logx.Config{
					Level:   newCfg.Logging.Level,
					Console: newCfg.Logging.Console,
					File: logx.FileConfig{
						Enabled: newCfg.Logging.File.Enabled,
						Path:    newCfg.Logging.File.Path,
					},
				})

				if err := a.rsync.Apply(c, resync.Config{
					Enabled:  newCfg.Resync.Enabled,
					Schedule: newCfg.Resync.Schedule,
					Timezone: newCfg.Resync.Timezone,
				}); err != nil {
					a.log.Warn("resync config apply failed", logx.Err(err))
				}

				for _, s := range config.RestartRequired(sections) {
					a.log.Warn("section changed; restart required to apply", logx.String("section", s))
				}

				a.bus.Publish(eventbus.EventConfigReloaded, sections)
				a.log.Info("config reloaded",
					append([]logx.Field{logx.String("changed", strings.Join(sections, ","))}, attrs...)...)
			}
		}
	})

	a.sup.Go("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})

	a.log.Info("app started")
	return nil
}

func (a *App) Stop(ctx context.Context, reason StopReason) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping", logx.String("reason", string(reason)))

	// Cancel the run context first so background loops start unwinding immediately.
	a.sup.Cancel()

	// Run a shutdown step with an upper bound so one component can't stall the whole stop.
	step := func(name string, max time.Duration, fn func(context.Context) error) {
		start := time.Now()
		a.log.Debug("stop step begin", logx.String("name", name), logx.Duration("max", max))

		stepCtx := ctx
		var cancel context.CancelFunc
		if max > 0 {
			// respect the caller's deadline; never extend it
			if dl, ok := ctx.Deadline(); ok {
				rem := time.Until(dl)
				if rem <= 0 {
					max = 0
				} else if rem < max {
					max = rem
				}
			}
			if max > 0 {
				stepCtx, cancel = context.WithTimeout(ctx, max)
				defer cancel()
			}
		}

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic in stop step %s: %v", name, r)
				}
			}()
			done <- fn(stepCtx)
		}()

		select {
		case err := <-done:
			if err != nil {
				a.log.Warn("stop step error", logx.String("name", name), logx.Err(err))
			}
			a.log.Debug("stop step end", logx.String("name", name), logx.Duration("took", time.Since(start)))
		case <-stepCtx.Done():
			a.log.Warn("stop step deadline reached (continuing)",
				logx.String("name", name),
				logx.Err(stepCtx.Err()),
				logx.Duration("elapsed", time.Since(start)),
			)
		}
	}

	step("resync", 2*time.Second, func(c context.Context) error { a.rsync.Stop(c); return nil })
	step("session", 3*time.Second, func(c context.Context) error { return a.sess.Close(c) })
	step("supervisor", 2*time.Second, func(c context.Context) error { return a.sup.Wait(c) })

	a.bus.Close()
	a.log.Info("stopped")
	return a.logs.Close()
}
