package notify

import (
	"context"
	"sync"

	"craftforge/internal/api"
	logx "craftforge/pkg/logx"
)

// NotificationAPI is the slice of the REST client the inbox needs.
type NotificationAPI interface {
	Notifications(ctx context.Context, unreadOnly bool) ([]api.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
}

// Inbox holds the in-memory notification list (most recent first) and the
// unread counter. The counter is maintained incrementally and may drift from
// server truth until the next Seed.
type Inbox struct {
	client NotificationAPI
	log    logx.Logger

	mu     sync.RWMutex
	items  []api.Notification
	unread int
}

func NewInbox(client NotificationAPI, log logx.Logger) *Inbox {
	return &Inbox{client: client, log: log}
}

// Seed loads the full list and the unread count from the server and merges
// them with anything already received. Pushes can race the seed calls, so the
// merge de-duplicates by notification id: live entries unknown to the server
// snapshot stay at the front and keep counting as unread.
func (in *Inbox) Seed(ctx context.Context) error {
	list, err := in.client.Notifications(ctx, false)
	if err != nil {
		return err
	}
	count, err := in.client.UnreadCount(ctx)
	if err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(list))
	for _, n := range list {
		seen[n.ID] = struct{}{}
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	var extra []api.Notification
	for _, n := range in.items {
		if _, ok := seen[n.ID]; ok {
			continue
		}
		extra = append(extra, n)
		if !n.IsRead {
			count++
		}
	}

	in.items = append(extra, list...)
	in.unread = count
	return nil
}

// Receive inserts a pushed notification: prepend, unread += 1. The increment
// is unconditional because the server only pushes fresh, unread entries.
// Duplicate ids are dropped and reported as not inserted.
func (in *Inbox) Receive(n api.Notification) bool {
	in.mu.Lock()
	defer in.mu.Unlock()

	for _, existing := range in.items {
		if existing.ID == n.ID {
			if !in.log.IsZero() {
				in.log.Debug("duplicate notification dropped", logx.String("id", n.ID))
			}
			return false
		}
	}

	in.items = append([]api.Notification{n}, in.items...)
	in.unread++
	return true
}

// MarkRead marks one notification read: server first, local state only on
// success. The decrement is floored at zero so re-reading an entry can never
// drive the counter negative.
func (in *Inbox) MarkRead(ctx context.Context, id string) error {
	if err := in.client.MarkNotificationRead(ctx, id); err != nil {
		if !in.log.IsZero() {
			in.log.Warn("mark read failed", logx.String("id", id), logx.Err(err))
		}
		return err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	for i := range in.items {
		if in.items[i].ID == id {
			in.items[i].IsRead = true
			break
		}
	}
	if in.unread > 0 {
		in.unread--
	}
	return nil
}

// MarkAllRead marks everything read: server first, then flip every entry and
// zero the counter.
func (in *Inbox) MarkAllRead(ctx context.Context) error {
	if err := in.client.MarkAllNotificationsRead(ctx); err != nil {
		if !in.log.IsZero() {
			in.log.Warn("mark all read failed", logx.Err(err))
		}
		return err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	for i := range in.items {
		in.items[i].IsRead = true
	}
	in.unread = 0
	return nil
}

// List returns a copy of the notifications, most recent first.
func (in *Inbox) List() []api.Notification {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]api.Notification, len(in.items))
	copy(out, in.items)
	return out
}

func (in *Inbox) Unread() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.unread
}
