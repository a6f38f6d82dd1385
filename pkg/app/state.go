package app

import (
	"time"

	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
)

// ConnKind is the connection status shown to the user.
type ConnKind int

const (
	Disconnected ConnKind = iota
	Connected
	Errored
)

// Conn is the displayed connection state. Message is set for Errored and may
// explain why the state is Disconnected.
type Conn struct {
	Kind    ConnKind
	Message string
}

func (c Conn) String() string {
	switch c.Kind {
	case Connected:
		return "Conectado ✅"
	case Errored:
		return c.Message
	default:
		if c.Message != "" {
			return c.Message
		}
		return "Desconectado"
	}
}

// FetchTicket identifies one month fetch. Only the latest issued ticket may
// update the state.
type FetchTicket struct {
	Seq    uint64
	Anchor calendar.Anchor
}

// State is the view state owned by the event loop. Every transition runs on
// that loop; rendering is a projection of the current value.
type State struct {
	Anchor   calendar.Anchor
	Selected datekey.Key
	Index    note.Index
	Conn     Conn
	Loading  bool

	connected bool
	seq       uint64
}

// NewState anchors on the month containing now.
func NewState(now time.Time) *State {
	return &State{
		Anchor: calendar.AnchorOf(now),
		Index:  note.Index{},
	}
}

// Connected reports whether a probe succeeded and no disconnect followed.
// A failed fetch shows an error but keeps the session usable.
func (s *State) Connected() bool { return s.connected }

// SelectDay sets the selected day. No fetch is needed.
func (s *State) SelectDay(k datekey.Key) {
	s.Selected = k
}

// NavigateMonth moves the anchor by delta months.
func (s *State) NavigateMonth(delta int) *FetchTicket {
	s.Anchor = s.Anchor.Add(delta)
	return s.BeginFetch()
}

// JumpTo anchors on an absolute year and zero-indexed month.
func (s *State) JumpTo(year, month int) *FetchTicket {
	s.Anchor = calendar.NewAnchor(year, month)
	return s.BeginFetch()
}

// Today anchors on the month containing now.
func (s *State) Today(now time.Time) *FetchTicket {
	s.Anchor = calendar.AnchorOf(now)
	return s.BeginFetch()
}

// BeginFetch issues a ticket for the current anchor, superseding any fetch
// still in flight. It returns nil while disconnected.
func (s *State) BeginFetch() *FetchTicket {
	if !s.connected {
		return nil
	}
	s.seq++
	s.Loading = true
	return &FetchTicket{Seq: s.seq, Anchor: s.Anchor}
}

// ApplyFetch records a fetch completion. Stale tickets are ignored and
// reported as false. On error the previous index is kept.
func (s *State) ApplyFetch(t FetchTicket, idx note.Index, err error) bool {
	if t.Seq != s.seq || !s.connected {
		return false
	}
	s.Loading = false
	if err != nil {
		s.Conn = Conn{Kind: Errored, Message: UserMessage(err)}
		return true
	}
	if idx == nil {
		idx = note.Index{}
	}
	s.Index = idx
	s.Conn = Conn{Kind: Connected}
	return true
}

// ApplyConnect records the outcome of a connection probe.
func (s *State) ApplyConnect(err error) {
	if err != nil {
		s.connected = false
		s.Conn = Conn{Kind: Errored, Message: UserMessage(err)}
		return
	}
	s.connected = true
	s.Conn = Conn{Kind: Connected}
}

// Disconnect drops the session and blanks the index. In-flight fetches
// become stale.
func (s *State) Disconnect(reason string) {
	s.connected = false
	s.seq++
	s.Loading = false
	s.Index = note.Index{}
	s.Conn = Conn{Kind: Disconnected, Message: reason}
}

// SelectedNotes returns the notes of the selected day.
func (s *State) SelectedNotes() []note.Row {
	if s.Selected == "" {
		return nil
	}
	return s.Index.Notes(s.Selected)
}
