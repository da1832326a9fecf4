// Package eventbus provides a minimal in-process pub/sub used to fan out
// notification and channel-state events between packages without direct
// coupling.
package eventbus

import (
	"strings"
	"sync"
	"time"
)

// Event names published by the daemon. Subscribers may match on the exact
// name or on a "prefix.*" pattern.
const (
	EventNotificationReceived = "notify.received"
	EventNotificationAlert    = "notify.alert"
	EventChannelState         = "channel.state"
	EventSessionStarted       = "session.started"
	EventSessionStopped       = "session.stopped"
	EventConfigReloaded       = "config.reloaded"
	EventResyncCompleted      = "resync.completed"
)

type Event struct {
	Name string
	At   time.Time
	Data any
}

type subscriber struct {
	pattern string
	ch      chan Event
	once    sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

func (s *subscriber) matches(name string) bool {
	if s.pattern == "" || s.pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(s.pattern, ".*"); ok {
		return name == prefix || strings.HasPrefix(name, prefix+".")
	}
	return s.pattern == name
}

// Bus is a non-blocking in-memory event bus. Publish never blocks; if a
// subscriber's buffer is full the event is dropped for that subscriber.
type Bus struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

func New() *Bus {
	return &Bus{subs: make(map[*subscriber]struct{})}
}

// Subscribe registers a subscriber for events matching pattern. The returned
// cancel func removes the subscription and closes the channel. A buffer of 0
// is coerced to 1 so Publish stays non-blocking.
func (b *Bus) Subscribe(pattern string, buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	sub := &subscriber{pattern: pattern, ch: make(chan Event, buffer)}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel
}

func (b *Bus) Publish(name string, data any) {
	ev := Event{Name: name, At: time.Now(), Data: data}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if !sub.matches(name) {
			continue
		}
		func() {
			// A cancel racing Publish may have closed the channel.
			defer func() { _ = recover() }()
			select {
			case sub.ch <- ev:
			default:
			}
		}()
	}
}

// Close removes all subscribers and closes their channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		delete(b.subs, sub)
		sub.close()
	}
}
