package teaui

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"
	"go.uber.org/mock/gomock"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
	"tableflip.dev/calnotes/pkg/store"
	store_mocks "tableflip.dev/calnotes/pkg/store/mocks"
)

var testNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

func newTestModel(t *testing.T, configured bool) (*Model, *store_mocks.MockRowStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rs := store_mocks.NewMockRowStore(ctrl)
	sync := app.NewSync(rs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	m := New(Options{
		Sync:       sync,
		Configured: configured,
		Now:        func() time.Time { return testNow },
	})
	return m, rs
}

// drain runs cmd and feeds every store message it produces back into m.
func drain(m *Model, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case connectedMsg, fetchedMsg, savedMsg, deletedMsg:
			_, next := m.Update(msg)
			queue = append(queue, next)
		}
	}
}

func press(m *Model, k tea.KeyPressMsg) {
	_, cmd := m.Update(k)
	drain(m, cmd)
}

func runeKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func connect(t *testing.T, m *Model, rs *store_mocks.MockRowStore, rows []note.Row) {
	t.Helper()
	gomock.InOrder(
		rs.EXPECT().Probe(gomock.Any()).Return(nil),
		rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-03-01"), datekey.Key("2025-03-31")).Return(rows, nil),
	)
	drain(m, m.Init())
	if !m.State().Connected() {
		t.Fatalf("expected connected state, got %+v", m.State().Conn)
	}
}

func TestInitWithoutConfigStaysDisconnected(t *testing.T) {
	m, _ := newTestModel(t, false)
	if cmd := m.Init(); cmd != nil {
		t.Fatalf("expected no command without configuration")
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "Falta configuración") {
		t.Fatalf("expected missing configuration status; view=%q", view)
	}
	if !strings.Contains(view, "Marzo 2025") {
		t.Fatalf("expected month title; view=%q", view)
	}
}

func TestAutoConnectLoadsMonth(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, []note.Row{
		{ID: "1", Date: "2025-03-05", Content: "dentista"},
		{ID: "2", Date: "2025-03-05", Content: "pan"},
	})
	if got := m.State().Index.Count("2025-03-05"); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, " 5·2") {
		t.Fatalf("expected count badge on day 5; view=%q", view)
	}
	if !strings.Contains(view, "Conectado") {
		t.Fatalf("expected connected status; view=%q", view)
	}
}

func TestConnectFailureShowsMessage(t *testing.T) {
	m, rs := newTestModel(t, true)
	rs.EXPECT().Probe(gomock.Any()).Return(&store.Error{Status: 401, Message: "Invalid API key"})
	drain(m, m.Init())
	if m.State().Connected() {
		t.Fatalf("must not be connected")
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "No se pudo conectar: Invalid API key") {
		t.Fatalf("expected probe failure in status; view=%q", view)
	}
}

func TestDayNavigationCrossesMonth(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, nil)

	press(m, tea.KeyPressMsg{Code: tea.KeyRight})
	if m.State().Selected != "2025-03-10" {
		t.Fatalf("first move should select today, got %q", m.State().Selected)
	}

	rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-04-01"), datekey.Key("2025-04-30")).Return(nil, nil)
	m.State().SelectDay("2025-03-28")
	press(m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.State().Selected != "2025-04-04" {
		t.Fatalf("selected = %q, want 2025-04-04", m.State().Selected)
	}
	if m.State().Anchor != (calendar.Anchor{Year: 2025, Month: 3}) {
		t.Fatalf("anchor = %v, want April 2025", m.State().Anchor)
	}
}

func TestMonthKeysRefetch(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, nil)

	gomock.InOrder(
		rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-02-01"), datekey.Key("2025-02-28")).Return(nil, nil),
		rs.EXPECT().Range(gomock.Any(), datekey.Key("2025-03-01"), datekey.Key("2025-03-31")).Return(nil, nil),
	)
	press(m, runeKey('['))
	press(m, runeKey(']'))
	if m.State().Anchor != (calendar.Anchor{Year: 2025, Month: 2}) {
		t.Fatalf("anchor = %v", m.State().Anchor)
	}
}

func TestJumpPrompt(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, nil)

	press(m, runeKey('g'))
	if m.mode != modeJump {
		t.Fatalf("expected jump mode")
	}
	m.input.SetValue("1999-12")
	rs.EXPECT().Range(gomock.Any(), datekey.Key("1999-12-01"), datekey.Key("1999-12-31")).Return(nil, nil)
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNormal || m.State().Anchor != (calendar.Anchor{Year: 1999, Month: 11}) {
		t.Fatalf("mode=%v anchor=%v", m.mode, m.State().Anchor)
	}

	press(m, runeKey('g'))
	m.input.SetValue("diciembre")
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeJump || !strings.Contains(m.status, "Mes inválido") {
		t.Fatalf("expected invalid month to keep prompt, status=%q", m.status)
	}
}

func TestAddNoteSavesAndClearsInput(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, nil)
	m.State().SelectDay("2025-03-04")

	press(m, runeKey('a'))
	if m.mode != modeInsert {
		t.Fatalf("expected insert mode")
	}
	m.input.SetValue("  llamar a mamá ")
	gomock.InOrder(
		rs.EXPECT().Insert(gomock.Any(), datekey.Key("2025-03-04"), "llamar a mamá").Return(nil),
		rs.EXPECT().Range(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]note.Row{{ID: "7", Date: "2025-03-04", Content: "llamar a mamá"}}, nil),
	)
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.input.Value() != "" {
		t.Fatalf("input should be cleared after saving, got %q", m.input.Value())
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "Notas para 4 de Marzo de 2025") || !strings.Contains(view, "llamar a mamá") {
		t.Fatalf("expected saved note in panel; view=%q", view)
	}
}

func TestAddBlankNoteMakesNoCall(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, nil)
	m.State().SelectDay("2025-03-04")

	press(m, runeKey('a'))
	m.input.SetValue("   ")
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeInsert || m.status != "La nota está vacía." {
		t.Fatalf("mode=%v status=%q", m.mode, m.status)
	}
}

func TestAddWithoutSelectionPrompts(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, nil)
	press(m, runeKey('a'))
	if m.mode != modeNormal || m.status != "Primero selecciona un día en el calendario." {
		t.Fatalf("mode=%v status=%q", m.mode, m.status)
	}
}

func TestSaveFailureKeepsInput(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, nil)
	m.State().SelectDay("2025-03-04")

	press(m, runeKey('a'))
	m.input.SetValue("hola")
	rs.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&store.Error{Status: 403, Code: "42501", Message: "permission denied for table notes"})
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.input.Value() != "hola" {
		t.Fatalf("input should survive a failed save, got %q", m.input.Value())
	}
	if !strings.Contains(m.status, "RLS") {
		t.Fatalf("expected policy message, got %q", m.status)
	}
}

func TestDeleteSelectedNote(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, []note.Row{
		{ID: "1", Date: "2025-03-05", Content: "a"},
		{ID: "2", Date: "2025-03-05", Content: "b"},
	})
	m.State().SelectDay("2025-03-05")
	press(m, runeKey('j'))

	gomock.InOrder(
		rs.EXPECT().Delete(gomock.Any(), "2").Return(nil),
		rs.EXPECT().Range(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]note.Row{{ID: "1", Date: "2025-03-05", Content: "a"}}, nil),
	)
	press(m, runeKey('d'))
	if m.noteIdx != 0 || m.status != "Nota eliminada" {
		t.Fatalf("noteIdx=%d status=%q", m.noteIdx, m.status)
	}
}

func TestDeleteFailureShowsMessage(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, []note.Row{{ID: "1", Date: "2025-03-05", Content: "a"}})
	m.State().SelectDay("2025-03-05")

	rs.EXPECT().Delete(gomock.Any(), "1").Return(errors.New("timeout"))
	press(m, runeKey('d'))
	if m.status != "No se pudo eliminar la nota: timeout" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestDisconnectBlanksCounts(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, []note.Row{{ID: "1", Date: "2025-03-05", Content: "a"}})

	press(m, runeKey('D'))
	if m.State().Connected() || m.State().Index.Len() != 0 {
		t.Fatalf("expected blank disconnected state")
	}
	m.State().SelectDay("2025-03-05")
	press(m, runeKey('a'))
	m.input.SetValue("hola")
	press(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(m.status, "Debes conectar") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestWatchStartedAfterDisconnectIsCancelled(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, nil)
	press(m, runeKey('D'))

	cancelled := false
	ch := make(chan store.Event)
	m.Update(watchStartedMsg{ch: ch, cancel: func() { cancelled = true }})
	if !cancelled {
		t.Fatalf("late watch start must be cancelled while disconnected")
	}
	if m.watchCh != nil || m.watchCancel != nil {
		t.Fatalf("watch installed while disconnected")
	}
}

func TestStaleFetchIgnored(t *testing.T) {
	m, rs := newTestModel(t, true)
	connect(t, m, rs, nil)

	first := m.State().NavigateMonth(1)
	second := m.State().NavigateMonth(1)
	m.Update(fetchedMsg{ticket: *second, idx: note.Build([]note.Row{{ID: "b", Date: "2025-05-02"}})})
	m.Update(fetchedMsg{ticket: *first, idx: note.Build([]note.Row{{ID: "a", Date: "2025-04-02"}})})
	if m.State().Index.Count("2025-05-02") != 1 || m.State().Index.Count("2025-04-02") != 0 {
		t.Fatalf("stale fetch must not replace the index: %+v", m.State().Index)
	}
}

func TestViewStacksPanelsOnNarrowTerminal(t *testing.T) {
	m, _ := newTestModel(t, false)
	m.Update(tea.WindowSizeMsg{Width: 60, Height: 40})
	for _, line := range strings.Split(stripANSI(m.View()), "\n") {
		if strings.Contains(line, "Lu") && strings.Contains(line, "Selecciona") {
			t.Fatalf("panels should stack at width 60: %q", line)
		}
	}

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	var joined bool
	for _, line := range strings.Split(stripANSI(m.View()), "\n") {
		if strings.Contains(line, "Marzo 2025") && strings.Contains(line, "Selecciona") {
			joined = true
		}
	}
	if !joined {
		t.Fatalf("panels should sit side by side at width 120")
	}
}
