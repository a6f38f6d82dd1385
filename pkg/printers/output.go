package printers

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
)

// Output formats.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Formats lists the accepted --output values.
var Formats = []string{FormatPretty, FormatJSON, FormatYAML}

// MonthDoc is the structured form of a month of notes.
type MonthDoc struct {
	Month string   `json:"month" yaml:"month"`
	Start string   `json:"start" yaml:"start"`
	End   string   `json:"end" yaml:"end"`
	Days  []DayDoc `json:"days" yaml:"days"`
	Total int      `json:"total" yaml:"total"`
}

// DayDoc holds one day's notes in creation order.
type DayDoc struct {
	Date  string    `json:"date" yaml:"date"`
	Count int       `json:"count" yaml:"count"`
	Notes []NoteDoc `json:"notes" yaml:"notes"`
}

// NoteDoc is a single note.
type NoteDoc struct {
	ID        string `json:"id" yaml:"id"`
	Content   string `json:"content" yaml:"content"`
	CreatedAt string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// NewMonthDoc projects idx for the anchored month.
func NewMonthDoc(a calendar.Anchor, idx note.Index) MonthDoc {
	r := a.Range()
	doc := MonthDoc{
		Month: a.Time().Format("2006-01"),
		Start: r.Start.String(),
		End:   r.End.String(),
		Days:  []DayDoc{},
	}
	for _, k := range SortedDays(idx) {
		if !a.Contains(k) {
			continue
		}
		doc.Days = append(doc.Days, NewDayDoc(k, idx.Notes(k)))
		doc.Total += idx.Count(k)
	}
	return doc
}

// NewDayDoc projects the rows of a single day.
func NewDayDoc(k datekey.Key, rows []note.Row) DayDoc {
	d := DayDoc{Date: k.String(), Count: len(rows), Notes: make([]NoteDoc, 0, len(rows))}
	for _, r := range rows {
		n := NoteDoc{ID: r.ID, Content: r.Content}
		if !r.CreatedAt.IsZero() {
			n.CreatedAt = r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		d.Notes = append(d.Notes, n)
	}
	return d
}

// Structured writes v as json or yaml.
func Structured(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("printers: unsupported output format %q", format)
	}
}
