// Package teaui hosts the Bubble Tea program for the calnotes TUI.
package teaui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
	"tableflip.dev/calnotes/pkg/store"
	"tableflip.dev/calnotes/pkg/tui/theme"
)

// MissingConfig is shown when no store is configured.
const MissingConfig = "Falta configuración. Define CALNOTES_URL y CALNOTES_KEY (o SUPABASE_URL y SUPABASE_ANON_KEY)."

type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeJump
)

// Options wires the model to a row store.
type Options struct {
	Sync *app.Sync
	// Watcher, when set, reports changes made by other processes.
	Watcher    store.Watcher
	Configured bool
	Endpoint   string
	Now        func() time.Time
}

// Model contains UI state. The embedded app.State is only touched from
// Update; store calls run inside commands and report back as messages.
type Model struct {
	state   *app.State
	sync    *app.Sync
	watcher store.Watcher
	log     *slog.Logger
	ctx     context.Context
	now     func() time.Time

	configured bool
	endpoint   string

	mode    mode
	keys    keyMap
	help    help.Model
	input   textinput.Model
	noteIdx int

	status    string
	statusErr bool

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	theme      theme.Theme
	termWidth  int
	termHeight int
}

// New creates a new UI model.
func New(opts Options) *Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := slog.Default()
	if opts.Sync != nil && opts.Sync.Log != nil {
		log = opts.Sync.Log
	}

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Prompt = ""
	ti.Styles.Cursor.Color = lipgloss.Color("218")
	ti.Styles.Cursor.Shape = tea.CursorUnderline

	m := &Model{
		state:      app.NewState(now()),
		sync:       opts.Sync,
		watcher:    opts.Watcher,
		log:        log,
		ctx:        context.Background(),
		now:        now,
		configured: opts.Configured && opts.Sync != nil,
		endpoint:   opts.Endpoint,
		keys:       newKeyMap(),
		help:       help.New(),
		input:      ti,
		theme:      theme.Default(),
	}
	if !m.configured {
		m.state.Conn = app.Conn{Kind: app.Disconnected, Message: MissingConfig}
	}
	return m
}

// State exposes the view state for inspection.
func (m *Model) State() *app.State { return m.state }

// Init connects automatically when a store is configured.
func (m *Model) Init() tea.Cmd {
	if !m.configured {
		return nil
	}
	m.setStatus("Conectando automáticamente...", false)
	return m.connect()
}

type connectedMsg struct{ err error }

type fetchedMsg struct {
	ticket app.FetchTicket
	idx    note.Index
	err    error
}

type savedMsg struct{ err error }

type deletedMsg struct{ err error }

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct{ event store.Event }

type watchStoppedMsg struct{}

func (m *Model) connect() tea.Cmd {
	sync, ctx := m.sync, m.ctx
	return func() tea.Msg {
		return connectedMsg{err: sync.Probe(ctx)}
	}
}

func (m *Model) fetch(t *app.FetchTicket) tea.Cmd {
	if t == nil {
		return nil
	}
	ticket, sync, ctx := *t, m.sync, m.ctx
	return func() tea.Msg {
		idx, err := sync.FetchMonth(ctx, ticket.Anchor)
		return fetchedMsg{ticket: ticket, idx: idx, err: err}
	}
}

func (m *Model) insert(req app.InsertRequest) tea.Cmd {
	sync, ctx := m.sync, m.ctx
	return func() tea.Msg {
		return savedMsg{err: sync.Insert(ctx, req)}
	}
}

func (m *Model) remove(req app.DeleteRequest) tea.Cmd {
	sync, ctx := m.sync, m.ctx
	return func() tea.Msg {
		return deletedMsg{err: sync.Delete(ctx, req)}
	}
}

func (m *Model) startWatch() tea.Cmd {
	if m.watcher == nil || m.watchCh != nil {
		return nil
	}
	w, parent := m.watcher, m.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := w.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// Update handles messages and keybindings.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case connectedMsg:
		m.state.ApplyConnect(msg.err)
		if msg.err != nil {
			m.setStatus("", false)
			break
		}
		m.log.Info("connected", slog.String("endpoint", m.endpoint))
		m.setStatus("", false)
		cmds = append(cmds, m.fetch(m.state.BeginFetch()), m.startWatch())
	case fetchedMsg:
		if !m.state.ApplyFetch(msg.ticket, msg.idx, msg.err) {
			m.log.Debug("discarding stale fetch", slog.Uint64("seq", msg.ticket.Seq))
			break
		}
		m.clampNote()
	case savedMsg:
		if msg.err != nil {
			m.setStatus(app.UserMessage(msg.err), true)
			break
		}
		m.input.Reset()
		m.setStatus("Nota guardada", false)
		cmds = append(cmds, m.fetch(m.state.BeginFetch()))
	case deletedMsg:
		if msg.err != nil {
			m.setStatus(app.UserMessage(msg.err), true)
			break
		}
		m.setStatus("Nota eliminada", false)
		cmds = append(cmds, m.fetch(m.state.BeginFetch()))
	case watchStartedMsg:
		if msg.err != nil {
			m.log.Warn("watch failed", slog.String("error", msg.err.Error()))
			break
		}
		if !m.state.Connected() {
			msg.cancel()
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		cmds = append(cmds, m.waitForWatch())
	case watchEventMsg:
		if msg.event.Date == "" || m.state.Anchor.Contains(msg.event.Date) {
			cmds = append(cmds, m.fetch(m.state.BeginFetch()))
		}
		cmds = append(cmds, m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
		if m.state.Connected() {
			cmds = append(cmds, m.startWatch())
		}
	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.mode {
	case modeInsert:
		return m.handleInsertKey(msg)
	case modeJump:
		return m.handleJumpKey(msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.stopWatch()
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.PrevDay):
		return m.moveDay(-1)
	case key.Matches(msg, k.NextDay):
		return m.moveDay(1)
	case key.Matches(msg, k.PrevWeek):
		return m.moveDay(-7)
	case key.Matches(msg, k.NextWeek):
		return m.moveDay(7)
	case key.Matches(msg, k.PrevMonth):
		return m.fetch(m.state.NavigateMonth(-1))
	case key.Matches(msg, k.NextMonth):
		return m.fetch(m.state.NavigateMonth(1))
	case key.Matches(msg, k.Today):
		today := m.now()
		ticket := m.state.Today(today)
		m.state.SelectDay(datekey.FromTime(today))
		m.noteIdx = 0
		return m.fetch(ticket)
	case key.Matches(msg, k.Jump):
		return m.enterPrompt(modeJump, "AAAA-MM", m.state.Anchor.Time().Format("2006-01"))
	case key.Matches(msg, k.Add):
		if m.state.Selected == "" {
			m.setStatus(app.UserMessage(app.ErrNoDaySelected), true)
			return nil
		}
		return m.enterPrompt(modeInsert, "Escribe una nota", m.input.Value())
	case key.Matches(msg, k.Delete):
		notes := m.state.SelectedNotes()
		if len(notes) == 0 {
			return nil
		}
		req, err := app.PrepareDelete(m.state, notes[m.noteIdx].ID)
		if err != nil {
			m.setStatus(app.UserMessage(err), true)
			return nil
		}
		return m.remove(req)
	case key.Matches(msg, k.NoteUp):
		if m.noteIdx > 0 {
			m.noteIdx--
		}
	case key.Matches(msg, k.NoteDown):
		if m.noteIdx < len(m.state.SelectedNotes())-1 {
			m.noteIdx++
		}
	case key.Matches(msg, k.Refresh):
		return m.fetch(m.state.BeginFetch())
	case key.Matches(msg, k.Connect):
		if !m.configured {
			m.setStatus(MissingConfig, true)
			return nil
		}
		m.setStatus("Conectando...", false)
		return m.connect()
	case key.Matches(msg, k.Disconnect):
		m.stopWatch()
		m.state.Disconnect("")
		m.noteIdx = 0
	}
	return nil
}

func (m *Model) handleInsertKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.leavePrompt()
		return nil
	case "enter":
		req, err := app.PrepareInsert(m.state, m.input.Value())
		if err != nil {
			m.setStatus(app.UserMessage(err), true)
			return nil
		}
		m.leavePrompt()
		m.setStatus("Guardando...", false)
		return m.insert(req)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleJumpKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.leavePrompt()
		m.input.Reset()
		return nil
	case "enter":
		a, err := calendar.ParseAnchor(m.input.Value())
		if err != nil {
			m.setStatus("Mes inválido, usa AAAA-MM", true)
			return nil
		}
		m.leavePrompt()
		m.input.Reset()
		return m.fetch(m.state.JumpTo(a.Year, a.Month))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) enterPrompt(md mode, placeholder, value string) tea.Cmd {
	m.mode = md
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.setStatus("", false)
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) leavePrompt() {
	m.mode = modeNormal
	m.input.Blur()
}

// moveDay shifts the selection by delta days, following it into the
// neighbouring month when needed.
func (m *Model) moveDay(delta int) tea.Cmd {
	var t time.Time
	if sel := m.state.Selected.Time(time.Local); !sel.IsZero() {
		t = sel.AddDate(0, 0, delta)
	} else {
		t = m.state.Anchor.Time()
		if today := m.now(); calendar.AnchorOf(today) == m.state.Anchor {
			t = today
		}
	}
	return m.selectDate(t)
}

func (m *Model) selectDate(t time.Time) tea.Cmd {
	m.state.SelectDay(datekey.FromTime(t))
	m.noteIdx = 0
	if a := calendar.AnchorOf(t); a != m.state.Anchor {
		return m.fetch(m.state.JumpTo(a.Year, a.Month))
	}
	return nil
}

func (m *Model) clampNote() {
	n := len(m.state.SelectedNotes())
	if m.noteIdx >= n {
		m.noteIdx = n - 1
	}
	if m.noteIdx < 0 {
		m.noteIdx = 0
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// Run starts the program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.stopWatch()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
