package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
	"tableflip.dev/calnotes/pkg/store"
	store_mocks "tableflip.dev/calnotes/pkg/store/mocks"
)

func newTestService(t *testing.T) (*Service, *store_mocks.MockRowStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rs := store_mocks.NewMockRowStore(ctrl)
	svc := NewService(rs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)
	svc.Now = func() time.Time { return now }
	svc.State = NewState(now)
	return svc, rs
}

func juneRows() []note.Row {
	base := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	return []note.Row{
		{ID: "1", Date: "2025-06-05", Content: "a", CreatedAt: base},
		{ID: "2", Date: "2025-06-05", Content: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "3", Date: "2025-06-07", Content: "c", CreatedAt: base.Add(2 * time.Hour)},
	}
}

func TestConnectProbesThenFetchesCurrentMonth(t *testing.T) {
	ctx := context.Background()
	svc, rs := newTestService(t)

	gomock.InOrder(
		rs.EXPECT().Probe(gomock.Any()).Return(nil),
		rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-03-01"), datekey.Key("2025-03-31")).Return(nil, nil),
	)

	if err := svc.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if !svc.State.Connected() || svc.State.Conn.Kind != Connected {
		t.Fatalf("expected connected, got %+v", svc.State.Conn)
	}
}

func TestConnectProbeFailure(t *testing.T) {
	svc, rs := newTestService(t)
	rs.EXPECT().Probe(gomock.Any()).Return(&store.Error{Status: 401, Message: "Invalid API key"})

	err := svc.Connect(context.Background())
	if !IsKind(err, ProbeFailed) {
		t.Fatalf("expected probe failure, got %v", err)
	}
	if svc.State.Connected() {
		t.Fatalf("must not be connected after failed probe")
	}
	if got := UserMessage(err); got != "No se pudo conectar: Invalid API key" {
		t.Fatalf("message = %q", got)
	}
}

func TestFetchMonthBuildsIndex(t *testing.T) {
	svc, rs := newTestService(t)
	rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-06-01"), datekey.Key("2025-06-30")).Return(juneRows(), nil)

	idx, err := svc.Sync.FetchMonth(context.Background(), calendar.Anchor{Year: 2025, Month: 5})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	day := idx.Notes("2025-06-05")
	if len(day) != 2 || day[0].ID != "1" || day[1].ID != "2" || idx.Count("2025-06-07") != 1 {
		t.Fatalf("unexpected index %+v", idx)
	}
}

func TestInsertRejectsBlankWithoutRemoteCall(t *testing.T) {
	svc, _ := newTestService(t) // strict mock: any call fails the test
	svc.State.ApplyConnect(nil)
	svc.SelectDay("2025-03-04")

	for _, content := range []string{"", "   ", "\t\n"} {
		if err := svc.InsertNote(context.Background(), content); !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("InsertNote(%q) = %v, want ErrEmptyInput", content, err)
		}
	}
}

func TestMutationsWhileDisconnectedMakeNoRemoteCall(t *testing.T) {
	svc, _ := newTestService(t)
	svc.SelectDay("2025-03-04")

	if err := svc.InsertNote(context.Background(), "hola"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("insert: expected ErrNotConnected, got %v", err)
	}
	if err := svc.DeleteNote(context.Background(), "1"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("delete: expected ErrNotConnected, got %v", err)
	}
}

func TestInsertWithoutSelectedDay(t *testing.T) {
	svc, _ := newTestService(t)
	svc.State.ApplyConnect(nil)
	if err := svc.InsertNote(context.Background(), "hola"); !errors.Is(err, ErrNoDaySelected) {
		t.Fatalf("expected ErrNoDaySelected, got %v", err)
	}
}

func TestInsertTrimsThenRefetches(t *testing.T) {
	ctx := context.Background()
	svc, rs := newTestService(t)
	svc.State.ApplyConnect(nil)
	svc.SelectDay("2025-03-04")

	saved := note.Row{ID: "9", Date: "2025-03-04", Content: "comprar pan", CreatedAt: time.Now()}
	gomock.InOrder(
		rs.EXPECT().Insert(gomock.Any(), datekey.Key("2025-03-04"), "comprar pan").Return(nil),
		rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-03-01"), datekey.Key("2025-03-31")).Return([]note.Row{saved}, nil),
	)

	if err := svc.InsertNote(ctx, "  comprar pan \n"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := svc.State.SelectedNotes(); len(got) != 1 || got[0].ID != "9" {
		t.Fatalf("index not refreshed: %+v", got)
	}
}

func TestInsertPolicyRejection(t *testing.T) {
	svc, rs := newTestService(t)
	svc.State.ApplyConnect(nil)
	svc.SelectDay("2025-03-04")
	rs.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&store.Error{Status: 401, Code: "42501", Message: `new row violates row-level security policy for table "notes"`})

	err := svc.InsertNote(context.Background(), "hola")
	if !errors.Is(err, ErrPolicyRejected) || !IsKind(err, WriteFailed) {
		t.Fatalf("expected policy rejection, got %v", err)
	}
	if got := UserMessage(err); got != "No se pudo guardar por RLS. Ejecuta SUPABASE_SETUP.sql en Supabase para crear políticas de insert/select/delete para anon." {
		t.Fatalf("message = %q", got)
	}
}

func TestDeleteFailureSurfacesMessageVerbatim(t *testing.T) {
	svc, rs := newTestService(t)
	svc.State.ApplyConnect(nil)
	rs.EXPECT().Delete(gomock.Any(), "7").Return(errors.New("connection reset by peer"))

	err := svc.DeleteNote(context.Background(), "7")
	if !IsKind(err, WriteFailed) || errors.Is(err, ErrPolicyRejected) {
		t.Fatalf("expected plain write failure, got %v", err)
	}
	if got := UserMessage(err); got != "No se pudo eliminar la nota: connection reset by peer" {
		t.Fatalf("message = %q", got)
	}
}

func TestDeleteRejectedByPolicyKeepsRemoteMessage(t *testing.T) {
	svc, rs := newTestService(t)
	svc.State.ApplyConnect(nil)
	rs.EXPECT().Delete(gomock.Any(), "7").
		Return(&store.Error{Status: 403, Code: "42501", Message: "permission denied for table notes"})

	err := svc.DeleteNote(context.Background(), "7")
	if !IsKind(err, WriteFailed) || errors.Is(err, ErrPolicyRejected) {
		t.Fatalf("expected plain write failure, got %v", err)
	}
	if got := UserMessage(err); got != "No se pudo eliminar la nota: permission denied for table notes" {
		t.Fatalf("message = %q", got)
	}
}

func TestInsertForbiddenStatusIsPolicyRejection(t *testing.T) {
	svc, rs := newTestService(t)
	svc.State.ApplyConnect(nil)
	svc.SelectDay("2025-03-04")
	rs.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&store.Error{Status: 403, Message: "Forbidden"})

	if err := svc.InsertNote(context.Background(), "hola"); !errors.Is(err, ErrPolicyRejected) {
		t.Fatalf("expected policy rejection, got %v", err)
	}
}

func TestDeleteRefetches(t *testing.T) {
	svc, rs := newTestService(t)
	svc.State.ApplyConnect(nil)
	gomock.InOrder(
		rs.EXPECT().Delete(gomock.Any(), "7").Return(nil),
		rs.EXPECT().Range(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil),
	)
	if err := svc.DeleteNote(context.Background(), "7"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestNavigationFetchFailureKeepsPreviousIndex(t *testing.T) {
	ctx := context.Background()
	svc, rs := newTestService(t)
	svc.State.ApplyConnect(nil)

	gomock.InOrder(
		rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-03-01"), datekey.Key("2025-03-31")).
			Return([]note.Row{{ID: "1", Date: "2025-03-02"}}, nil),
		rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-04-01"), datekey.Key("2025-04-30")).
			Return(nil, errors.New("boom")),
	)

	if err := svc.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := svc.NavigateMonth(ctx, 1); !IsKind(err, QueryFailed) {
		t.Fatalf("expected query failure, got %v", err)
	}
	if svc.State.Index.Count("2025-03-02") != 1 {
		t.Fatalf("previous index should be preserved")
	}
	if svc.State.Anchor != (calendar.Anchor{Year: 2025, Month: 3}) {
		t.Fatalf("anchor = %v", svc.State.Anchor)
	}
}

func TestTodayAnchorsOnNow(t *testing.T) {
	svc, rs := newTestService(t)
	svc.State.ApplyConnect(nil)
	svc.State.Anchor = calendar.Anchor{Year: 2020, Month: 0}
	rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-03-01"), datekey.Key("2025-03-31")).Return(nil, nil)
	if err := svc.Today(context.Background()); err != nil {
		t.Fatalf("today: %v", err)
	}
	if svc.State.Anchor != (calendar.Anchor{Year: 2025, Month: 2}) {
		t.Fatalf("anchor = %v", svc.State.Anchor)
	}
}
