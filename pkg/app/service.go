package app

import (
	"context"
	"log/slog"
	"time"

	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/store"
)

// Service runs state transitions and their fetches synchronously, for
// callers without an event loop of their own such as the CLI and MCP server.
type Service struct {
	Sync  *Sync
	State *State
	Now   func() time.Time
}

// NewService returns a disconnected service anchored on the current month.
func NewService(rs store.RowStore, log *slog.Logger) *Service {
	return &Service{
		Sync:  NewSync(rs, log),
		State: NewState(time.Now()),
		Now:   time.Now,
	}
}

// Connect probes the store and, on success, loads the current month.
func (s *Service) Connect(ctx context.Context) error {
	err := s.Sync.Probe(ctx)
	s.State.ApplyConnect(err)
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Disconnect drops the session and blanks the index.
func (s *Service) Disconnect(reason string) {
	s.State.Disconnect(reason)
}

// Refresh reloads the anchored month.
func (s *Service) Refresh(ctx context.Context) error {
	return s.run(ctx, s.State.BeginFetch())
}

// NavigateMonth moves the anchor by delta months and reloads.
func (s *Service) NavigateMonth(ctx context.Context, delta int) error {
	return s.run(ctx, s.State.NavigateMonth(delta))
}

// JumpTo anchors on year and zero-indexed month and reloads.
func (s *Service) JumpTo(ctx context.Context, year, month int) error {
	return s.run(ctx, s.State.JumpTo(year, month))
}

// Today anchors on the current month and reloads.
func (s *Service) Today(ctx context.Context) error {
	return s.run(ctx, s.State.Today(s.Now()))
}

// SelectDay selects k.
func (s *Service) SelectDay(k datekey.Key) {
	s.State.SelectDay(k)
}

// InsertNote saves content on the selected day and reloads.
func (s *Service) InsertNote(ctx context.Context, content string) error {
	req, err := PrepareInsert(s.State, content)
	if err != nil {
		return err
	}
	if err := s.Sync.Insert(ctx, req); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// DeleteNote removes the note with id and reloads.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	req, err := PrepareDelete(s.State, id)
	if err != nil {
		return err
	}
	if err := s.Sync.Delete(ctx, req); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Service) run(ctx context.Context, t *FetchTicket) error {
	if t == nil {
		return nil
	}
	idx, err := s.Sync.FetchMonth(ctx, t.Anchor)
	s.State.ApplyFetch(*t, idx, err)
	return err
}
