package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"craftforge/internal/api"
)

type fakeNotificationAPI struct {
	list  []api.Notification
	count int

	markReadErr    error
	markAllReadErr error
	markedRead     []string
	markedAll      int
}

func (f *fakeNotificationAPI) Notifications(ctx context.Context, unreadOnly bool) ([]api.Notification, error) {
	return f.list, nil
}

func (f *fakeNotificationAPI) UnreadCount(ctx context.Context) (int, error) {
	return f.count, nil
}

func (f *fakeNotificationAPI) MarkNotificationRead(ctx context.Context, id string) error {
	if f.markReadErr != nil {
		return f.markReadErr
	}
	f.markedRead = append(f.markedRead, id)
	return nil
}

func (f *fakeNotificationAPI) MarkAllNotificationsRead(ctx context.Context) error {
	if f.markAllReadErr != nil {
		return f.markAllReadErr
	}
	f.markedAll++
	return nil
}

func notif(id string) api.Notification {
	return api.Notification{ID: id, Title: "T " + id, Message: "M " + id}
}

func TestReceiveOrderAndCounter(t *testing.T) {
	t.Parallel()
	in := NewInbox(&fakeNotificationAPI{}, testLogger())

	const n = 5
	for i := 0; i < n; i++ {
		if !in.Receive(notif(fmt.Sprintf("n%d", i))) {
			t.Fatalf("push %d not inserted", i)
		}
	}

	if got := in.Unread(); got != n {
		t.Fatalf("unread = %d, want %d", got, n)
	}
	list := in.List()
	if len(list) != n {
		t.Fatalf("len = %d, want %d", len(list), n)
	}
	// most recent first
	for i := 0; i < n; i++ {
		want := fmt.Sprintf("n%d", n-1-i)
		if list[i].ID != want {
			t.Fatalf("list[%d] = %s, want %s", i, list[i].ID, want)
		}
	}
}

func TestReceiveIncrementsUnconditionally(t *testing.T) {
	t.Parallel()
	in := NewInbox(&fakeNotificationAPI{}, testLogger())

	// every accepted push is exactly one increment, whatever the flag says
	n := notif("n1")
	n.IsRead = true
	if !in.Receive(n) {
		t.Fatal("push not inserted")
	}
	if got := in.Unread(); got != 1 {
		t.Fatalf("unread = %d, want 1", got)
	}
}

func TestReceiveDuplicateDropped(t *testing.T) {
	t.Parallel()
	in := NewInbox(&fakeNotificationAPI{}, testLogger())

	if !in.Receive(notif("n1")) {
		t.Fatal("first push not inserted")
	}
	if in.Receive(notif("n1")) {
		t.Fatal("duplicate inserted")
	}
	if got := in.Unread(); got != 1 {
		t.Fatalf("unread = %d, want 1", got)
	}
	if got := len(in.List()); got != 1 {
		t.Fatalf("len = %d, want 1", got)
	}
}

func TestMarkReadFloorsAtZero(t *testing.T) {
	t.Parallel()
	f := &fakeNotificationAPI{}
	in := NewInbox(f, testLogger())
	in.Receive(notif("n1"))

	ctx := context.Background()
	if err := in.MarkRead(ctx, "n1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if got := in.Unread(); got != 0 {
		t.Fatalf("unread = %d, want 0", got)
	}
	// marking the same entry again never goes negative
	if err := in.MarkRead(ctx, "n1"); err != nil {
		t.Fatalf("MarkRead again: %v", err)
	}
	if got := in.Unread(); got != 0 {
		t.Fatalf("unread after re-read = %d, want 0", got)
	}
	if !in.List()[0].IsRead {
		t.Fatal("entry not flipped to read")
	}
}

func TestMarkReadFailureLeavesState(t *testing.T) {
	t.Parallel()
	f := &fakeNotificationAPI{markReadErr: errors.New("boom")}
	in := NewInbox(f, testLogger())
	in.Receive(notif("n1"))

	if err := in.MarkRead(context.Background(), "n1"); err == nil {
		t.Fatal("expected error")
	}
	if got := in.Unread(); got != 1 {
		t.Fatalf("unread = %d, want 1 (unchanged)", got)
	}
	if in.List()[0].IsRead {
		t.Fatal("entry flipped despite server failure")
	}
}

func TestMarkAllRead(t *testing.T) {
	t.Parallel()
	f := &fakeNotificationAPI{}
	in := NewInbox(f, testLogger())
	for i := 0; i < 5; i++ {
		in.Receive(notif(fmt.Sprintf("n%d", i)))
	}

	if err := in.MarkAllRead(context.Background()); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if got := in.Unread(); got != 0 {
		t.Fatalf("unread = %d, want 0", got)
	}
	for _, n := range in.List() {
		if !n.IsRead {
			t.Fatalf("entry %s still unread", n.ID)
		}
	}
	if f.markedAll != 1 {
		t.Fatalf("server calls = %d, want 1", f.markedAll)
	}
}

func TestSeedMergesByID(t *testing.T) {
	t.Parallel()
	f := &fakeNotificationAPI{
		list:  []api.Notification{notif("n2"), notif("n1")},
		count: 2,
	}
	in := NewInbox(f, testLogger())

	// A push races the seed: n3 is unknown to the server snapshot, n2 is a
	// duplicate of it.
	in.Receive(notif("n3"))
	in.Receive(notif("n2"))

	if err := in.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	list := in.List()
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	ids := map[string]int{}
	for _, n := range list {
		ids[n.ID]++
	}
	for id, c := range ids {
		if c != 1 {
			t.Fatalf("id %s appears %d times", id, c)
		}
	}
	// server count plus the raced push the snapshot missed
	if got := in.Unread(); got != 3 {
		t.Fatalf("unread = %d, want 3", got)
	}
}
