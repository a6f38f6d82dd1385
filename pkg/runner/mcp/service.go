// Package mcp provides the Model Context Protocol server integration for calnotes.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/printers"
	"tableflip.dev/calnotes/pkg/store"
)

// Service serializes tool calls onto a single app.Service, which is not
// safe for concurrent use.
type Service struct {
	mu  sync.Mutex
	app *app.Service
}

// MonthInfoDTO describes the layout of a month.
type MonthInfoDTO struct {
	Month         string   `json:"month"`
	Name          string   `json:"name"`
	DaysInMonth   int      `json:"daysInMonth"`
	WeekdayOffset int      `json:"weekdayOffset"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Weekdays      []string `json:"weekdays"`
}

// NewService builds a service over rs.
func NewService(rs store.RowStore, log *slog.Logger) *Service {
	return &Service{app: app.NewService(rs, log)}
}

// Connect probes the store. Tools fail with a not-connected error until it
// succeeds.
func (s *Service) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.app.Connect(ctx)
}

func (s *Service) ensureConnected(ctx context.Context) error {
	if s.app.State.Connected() {
		return nil
	}
	return s.app.Connect(ctx)
}

// MonthNotes returns every note of month ("YYYY-MM", empty for the current
// month) grouped by day.
func (s *Service) MonthNotes(ctx context.Context, month string) (printers.MonthDoc, error) {
	a, err := s.anchor(month)
	if err != nil {
		return printers.MonthDoc{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureConnected(ctx); err != nil {
		return printers.MonthDoc{}, err
	}
	if err := s.app.JumpTo(ctx, a.Year, a.Month); err != nil {
		return printers.MonthDoc{}, err
	}
	return printers.NewMonthDoc(a, s.app.State.Index), nil
}

// DayNotes returns the notes of a single day in creation order.
func (s *Service) DayNotes(ctx context.Context, date string) (printers.DayDoc, error) {
	k, err := datekey.Parse(date)
	if err != nil {
		return printers.DayDoc{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx, k); err != nil {
		return printers.DayDoc{}, err
	}
	return dayDoc(k, s.app.State), nil
}

// AddNote stores content on date and returns the day afterwards.
func (s *Service) AddNote(ctx context.Context, date, content string) (printers.DayDoc, error) {
	k, err := datekey.Parse(date)
	if err != nil {
		return printers.DayDoc{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.load(ctx, k); err != nil {
		return printers.DayDoc{}, err
	}
	s.app.SelectDay(k)
	if err := s.app.InsertNote(ctx, content); err != nil {
		return printers.DayDoc{}, err
	}
	return dayDoc(k, s.app.State), nil
}

// DeleteNote removes the note with id.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("note id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureConnected(ctx); err != nil {
		return err
	}
	return s.app.DeleteNote(ctx, id)
}

// MonthInfo describes the geometry of month without touching the store.
func (s *Service) MonthInfo(month string) (MonthInfoDTO, error) {
	a, err := s.anchor(month)
	if err != nil {
		return MonthInfoDTO{}, err
	}
	info, r := a.Info(), a.Range()
	return MonthInfoDTO{
		Month:         a.Time().Format("2006-01"),
		Name:          a.String(),
		DaysInMonth:   info.DaysInMonth,
		WeekdayOffset: info.WeekdayOffset,
		Start:         r.Start.String(),
		End:           r.End.String(),
		Weekdays:      calendar.WeekdayNames[:],
	}, nil
}

func (s *Service) anchor(month string) (calendar.Anchor, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		return calendar.AnchorOf(s.now()), nil
	}
	a, err := calendar.ParseAnchor(month)
	if err != nil {
		return calendar.Anchor{}, fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	return a, nil
}

// load anchors on the month holding k and fetches it. Callers hold mu.
func (s *Service) load(ctx context.Context, k datekey.Key) error {
	if err := s.ensureConnected(ctx); err != nil {
		return err
	}
	a := calendar.AnchorOf(k.Time(time.Local))
	return s.app.JumpTo(ctx, a.Year, a.Month)
}

func (s *Service) now() time.Time {
	if s.app.Now != nil {
		return s.app.Now()
	}
	return time.Now()
}

func dayDoc(k datekey.Key, st *app.State) printers.DayDoc {
	return printers.NewDayDoc(k, st.Index.Notes(k))
}
