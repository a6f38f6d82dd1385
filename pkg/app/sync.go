package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
	"tableflip.dev/calnotes/pkg/store"
)

// Sync issues row store calls. Its methods never touch State, so they are
// safe to run off the event loop; the Prepare functions run on it.
type Sync struct {
	Store store.RowStore
	Log   *slog.Logger
}

// NewSync wraps rs.
func NewSync(rs store.RowStore, log *slog.Logger) *Sync {
	if log == nil {
		log = slog.Default()
	}
	return &Sync{Store: rs, Log: log}
}

// InsertRequest is a validated note insert.
type InsertRequest struct {
	Date    datekey.Key
	Content string
}

// DeleteRequest is a validated note delete.
type DeleteRequest struct {
	ID string
}

// PrepareInsert checks an insert against st without any network call.
func PrepareInsert(st *State, content string) (InsertRequest, error) {
	if !st.Connected() {
		return InsertRequest{}, ErrNotConnected
	}
	if st.Selected == "" {
		return InsertRequest{}, ErrNoDaySelected
	}
	if _, _, _, err := datekey.Decode(st.Selected); err != nil {
		return InsertRequest{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return InsertRequest{}, ErrEmptyInput
	}
	return InsertRequest{Date: st.Selected, Content: content}, nil
}

// PrepareDelete checks a delete against st without any network call.
func PrepareDelete(st *State, id string) (DeleteRequest, error) {
	if !st.Connected() {
		return DeleteRequest{}, ErrNotConnected
	}
	if strings.TrimSpace(id) == "" {
		return DeleteRequest{}, errors.New("app: note id required")
	}
	return DeleteRequest{ID: id}, nil
}

// Probe checks reachability and credentials with a count-only request.
func (s *Sync) Probe(ctx context.Context) error {
	if s.Store == nil {
		return remoteError(ProbeFailed, "", errors.New("no row store configured"))
	}
	if err := s.Store.Probe(ctx); err != nil {
		s.Log.Warn("connection probe failed", slog.String("error", err.Error()))
		return remoteError(ProbeFailed, "", err)
	}
	s.Log.Debug("connection probe succeeded")
	return nil
}

// FetchMonth loads every note of the anchored month and indexes it by day.
func (s *Sync) FetchMonth(ctx context.Context, a calendar.Anchor) (note.Index, error) {
	r := a.Range()
	rows, err := s.Store.Range(ctx, r.Start, r.End)
	if err != nil {
		s.Log.Warn("month query failed", slog.String("month", a.String()), slog.String("error", err.Error()))
		return nil, remoteError(QueryFailed, "", err)
	}
	s.Log.Debug("month loaded", slog.String("start", r.Start.String()), slog.String("end", r.End.String()), slog.Int("rows", len(rows)))
	return note.Build(rows), nil
}

// Insert stores a prepared note.
func (s *Sync) Insert(ctx context.Context, req InsertRequest) error {
	if err := s.Store.Insert(ctx, req.Date, req.Content); err != nil {
		s.Log.Warn("insert failed", slog.String("date", req.Date.String()), slog.String("error", err.Error()))
		return remoteError(WriteFailed, OpInsert, err)
	}
	s.Log.Info("note saved", slog.String("date", req.Date.String()))
	return nil
}

// Delete removes a prepared note.
func (s *Sync) Delete(ctx context.Context, req DeleteRequest) error {
	if err := s.Store.Delete(ctx, req.ID); err != nil {
		s.Log.Warn("delete failed", slog.String("id", req.ID), slog.String("error", err.Error()))
		return remoteError(WriteFailed, OpDelete, err)
	}
	s.Log.Info("note deleted", slog.String("id", req.ID))
	return nil
}
