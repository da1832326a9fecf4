package eventbus

import "testing"

func TestPatternMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		event   string
		want    bool
	}{
		{"exact", EventNotificationAlert, EventNotificationAlert, true},
		{"exact mismatch", EventNotificationAlert, EventChannelState, false},
		{"wildcard prefix", "notify.*", EventNotificationReceived, true},
		{"wildcard prefix other", "notify.*", EventNotificationAlert, true},
		{"wildcard no match", "notify.*", EventChannelState, false},
		{"wildcard bare prefix", "notify.*", "notify", true},
		{"wildcard partial word", "notify.*", "notifyx.alert", false},
		{"match all star", "*", EventResyncCompleted, true},
		{"match all empty", "", EventSessionStarted, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &subscriber{pattern: tt.pattern}
			if got := s.matches(tt.event); got != tt.want {
				t.Fatalf("matches(%q, %q) = %v, want %v", tt.pattern, tt.event, got, tt.want)
			}
		})
	}
}

func TestPublishDelivers(t *testing.T) {
	t.Parallel()

	bus := New()
	ch, cancel := bus.Subscribe("notify.*", 4)
	defer cancel()

	bus.Publish(EventNotificationAlert, "hello")
	bus.Publish(EventChannelState, "filtered out")

	ev := <-ch
	if ev.Name != EventNotificationAlert {
		t.Fatalf("got event %q, want %q", ev.Name, EventNotificationAlert)
	}
	if ev.Data != "hello" {
		t.Fatalf("got data %v, want hello", ev.Data)
	}
	if ev.At.IsZero() {
		t.Fatal("event timestamp not set")
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %q", ev.Name)
	default:
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	t.Parallel()

	bus := New()
	ch, cancel := bus.Subscribe("*", 1)
	defer cancel()

	// nobody reading; second publish must drop, not block
	bus.Publish(EventSessionStarted, 1)
	bus.Publish(EventSessionStarted, 2)
	bus.Publish(EventSessionStarted, 3)

	ev := <-ch
	if ev.Data != 1 {
		t.Fatalf("got data %v, want 1", ev.Data)
	}
	select {
	case ev := <-ch:
		t.Fatalf("overflow event delivered: %v", ev.Data)
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	t.Parallel()

	bus := New()
	ch, cancel := bus.Subscribe("*", 1)
	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Fatal("channel still open after cancel")
	}

	// publish after cancel must not panic or deliver
	bus.Publish(EventSessionStopped, nil)
}

func TestCloseClosesAllSubscribers(t *testing.T) {
	t.Parallel()

	bus := New()
	a, cancelA := bus.Subscribe("*", 1)
	b, _ := bus.Subscribe("notify.*", 1)
	defer cancelA()

	bus.Close()

	if _, ok := <-a; ok {
		t.Fatal("subscriber a still open after Close")
	}
	if _, ok := <-b; ok {
		t.Fatal("subscriber b still open after Close")
	}
}
