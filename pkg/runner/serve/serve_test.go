package serve

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"tableflip.dev/calnotes/pkg/store"
)

func TestServeHealthAndShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	s := &Serve{
		Store:       store.NewDiskv(t.TempDir()),
		Addr:        "127.0.0.1:0",
		OnListening: func(a net.Addr) { addrCh <- a },
	}
	done := make(chan error, 1)
	go func() { done <- s.Do(ctx) }()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/health/live")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Do() = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestServeRequiresStore(t *testing.T) {
	s := &Serve{}
	if err := s.Do(context.Background()); err == nil {
		t.Fatalf("expected error without store")
	}
}
