package teaui

import "github.com/charmbracelet/bubbles/v2/key"

type keyMap struct {
	PrevDay    key.Binding
	NextDay    key.Binding
	PrevWeek   key.Binding
	NextWeek   key.Binding
	PrevMonth  key.Binding
	NextMonth  key.Binding
	Today      key.Binding
	Jump       key.Binding
	Add        key.Binding
	Delete     key.Binding
	NoteUp     key.Binding
	NoteDown   key.Binding
	Refresh    key.Binding
	Connect    key.Binding
	Disconnect key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		PrevDay:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "día anterior")),
		NextDay:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "día siguiente")),
		PrevWeek:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "semana anterior")),
		NextWeek:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "semana siguiente")),
		PrevMonth:  key.NewBinding(key.WithKeys("[", "p"), key.WithHelp("[/p", "mes anterior")),
		NextMonth:  key.NewBinding(key.WithKeys("]", "n"), key.WithHelp("]/n", "mes siguiente")),
		Today:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "hoy")),
		Jump:       key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "ir a AAAA-MM")),
		Add:        key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "nueva nota")),
		Delete:     key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "eliminar")),
		NoteUp:     key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "nota anterior")),
		NoteDown:   key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "nota siguiente")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recargar")),
		Connect:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "conectar")),
		Disconnect: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "desconectar")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ayuda")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "salir")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.Today, k.Add, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDay, k.NextDay, k.PrevWeek, k.NextWeek},
		{k.PrevMonth, k.NextMonth, k.Today, k.Jump},
		{k.Add, k.Delete, k.NoteUp, k.NoteDown},
		{k.Refresh, k.Connect, k.Disconnect, k.Help, k.Quit},
	}
}
