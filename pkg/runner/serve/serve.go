// Package serve exposes a local row store over the PostgREST dialect.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"tableflip.dev/calnotes/pkg/rowserver"
	"tableflip.dev/calnotes/pkg/store"
)

type Serve struct {
	Store store.RowStore
	Log   *slog.Logger
	Addr  string
	Key   string
	Table string
	// OnListening is called once the listener is bound.
	OnListening func(net.Addr)
}

func (s *Serve) Do(ctx context.Context) error {
	if s.Store == nil {
		return errors.New("can not serve, no row store")
	}
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	addr := s.Addr
	if addr == "" {
		addr = "127.0.0.1:54321"
	}

	httpServer := &http.Server{
		Handler: rowserver.NewServer(s.Store, rowserver.Options{
			Table: s.Table,
			Key:   s.Key,
			Log:   log,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if s.OnListening != nil {
		s.OnListening(ln.Addr())
	}

	g, gCtx := errgroup.WithContext(ctx)

	if w, ok := s.Store.(store.Watcher); ok {
		g.Go(func() error {
			events, err := w.Watch(gCtx)
			if err != nil {
				log.Warn("watch disabled", slog.String("error", err.Error()))
				return nil
			}
			for ev := range events {
				log.Info("rows changed on disk", slog.String("date", ev.Date.String()))
			}
			return nil
		})
	}

	g.Go(func() error {
		log.Info("starting HTTP server", slog.String("address", ln.Addr().String()))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			log.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}
	log.Info("server stopped")
	return nil
}

// errShutdown cancels the group so the watcher goroutine exits.
var errShutdown = errors.New("shutdown")
