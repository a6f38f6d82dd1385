package store

import (
	"context"
	"testing"
	"time"
)

func TestDiskvWatchEmitsDayChanges(t *testing.T) {
	s := NewDiskv(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	if err := s.Insert(ctx, "2025-06-05", "hello world"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Date == "" || evt.Date == "2025-06-05" {
				return
			}
			t.Fatalf("unexpected date %q", evt.Date)
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}

func TestDiskvDateForPath(t *testing.T) {
	s := NewDiskv("/data")
	if ev, ok := s.dateForPath("/data/2025/06/05/abc"); !ok || ev.Date != "2025-06-05" {
		t.Fatalf("dateForPath = %+v %v", ev, ok)
	}
	if ev, ok := s.dateForPath("/data/probe123"); !ok || ev.Date != "" {
		t.Fatalf("dateForPath for root file = %+v %v", ev, ok)
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Date: "2025-06-05"}, send)
	}

	select {
	case ev := <-got:
		if ev.Date != "2025-06-05" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flush")
	}
	select {
	case ev := <-got:
		t.Fatalf("expected a single coalesced event, got extra %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}
