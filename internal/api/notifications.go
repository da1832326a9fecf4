package api

import (
	"context"
	"net/url"
)

// Notifications returns the caller's notifications, most recent first.
// With unreadOnly the server filters to is_read == false.
func (c *Client) Notifications(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	var q url.Values
	if unreadOnly {
		q = url.Values{"unread_only": {"true"}}
	}
	var out []Notification
	if err := c.get(ctx, "/notifications", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount returns the server-side unread counter.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.put(ctx, "/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.put(ctx, "/notifications/read-all", nil, nil)
}
