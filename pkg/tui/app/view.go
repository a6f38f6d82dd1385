package teaui

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
)

const notesPanelWidth = 44

// View renders the month grid, the selected day's notes and the footer.
func (m *Model) View() string {
	th := m.theme

	title := th.Title.Render("‹ " + m.state.Anchor.String() + " ›")
	if m.state.Loading {
		title += " " + th.Loading.Render("cargando…")
	}
	grid := calendar.Render(m.state.Anchor, m.calendarDays(), m.calendarOptions())
	left := th.Panel.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, title, "", grid))
	right := th.Panel.Frame.Width(notesPanelWidth).Render(m.notesView())

	var body string
	if m.termWidth > 0 && m.termWidth < lipgloss.Width(left)+notesPanelWidth+2 {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	}

	lines := []string{body}
	switch m.mode {
	case modeInsert:
		lines = append(lines, th.Footer.Prompt.Render("Nota: ")+m.input.View())
	case modeJump:
		lines = append(lines, th.Footer.Prompt.Render("Ir a: ")+m.input.View())
	}
	lines = append(lines, m.statusLine(), th.Footer.Help.Render(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}

func (m *Model) calendarDays() []calendar.Day {
	info := m.state.Anchor.Info()
	today := datekey.FromTime(m.now())
	days := make([]calendar.Day, 0, info.DaysInMonth)
	for d := 1; d <= info.DaysInMonth; d++ {
		k := datekey.Encode(info.Year, info.Month, d)
		days = append(days, calendar.Day{
			Day:        d,
			Count:      note.CountFor(m.state.Index, k),
			IsToday:    k == today,
			IsSelected: k == m.state.Selected,
		})
	}
	return days
}

func (m *Model) calendarOptions() calendar.Options {
	c := m.theme.Calendar
	return calendar.Options{
		HeaderStyle:   c.Header,
		EmptyStyle:    c.Empty,
		EntryStyle:    c.Entry,
		TodayStyle:    c.Today,
		SelectedStyle: c.Selected,
		ShowHeader:    true,
	}
}

func (m *Model) notesView() string {
	th := m.theme
	if m.state.Selected == "" {
		return th.Panel.Title.Render(calendar.DayTitle(""))
	}

	notes := m.state.SelectedNotes()
	lines := []string{
		th.Panel.Title.Render(calendar.DayTitle(m.state.Selected)),
		th.Notes.Time.Render(note.Label(len(notes))),
		"",
	}
	if len(notes) == 0 {
		lines = append(lines, th.Notes.Empty.Render("No hay notas todavía para este día."))
	}
	for i, n := range notes {
		marker := "  "
		style := th.Notes.Item
		if i == m.noteIdx {
			marker = "→ "
			style = th.Notes.Active
		}
		stamp := ""
		if !n.CreatedAt.IsZero() {
			stamp = th.Notes.Time.Render(n.CreatedAt.Local().Format("15:04")) + " "
		}
		lines = append(lines, marker+stamp+style.Render(n.Content))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) statusLine() string {
	th := m.theme
	conn := m.state.Conn
	var connText string
	switch conn.Kind {
	case app.Connected:
		text := conn.String()
		if m.endpoint != "" {
			text = "Conectado a " + m.endpoint + " ✅"
		}
		connText = th.Footer.OK.Render(text)
	case app.Errored:
		connText = th.Footer.Error.Render(conn.String())
	default:
		if conn.Message != "" {
			connText = th.Footer.Error.Render(conn.String())
		} else {
			connText = th.Footer.Status.Render(conn.String())
		}
	}
	if m.status == "" {
		return connText
	}
	style := th.Footer.Status
	if m.statusErr {
		style = th.Footer.Error
	}
	return connText + th.Footer.Status.Render(" · ") + style.Render(m.status)
}
