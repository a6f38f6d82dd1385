// Package note holds note rows as stored remotely and the per-day index
// built from them.
package note

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"tableflip.dev/calnotes/pkg/datekey"
)

// Row is a read-only copy of one stored note.
type Row struct {
	ID        string      `json:"id"`
	Date      datekey.Key `json:"note_date"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
}

// UnmarshalJSON accepts both numeric and string identifiers, since hosted
// tables commonly use bigint ids while local stores use uuids.
func (r *Row) UnmarshalJSON(b []byte) error {
	type plain Row
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = Row(aux.plain)
	id := bytes.TrimSpace(aux.ID)
	switch {
	case len(id) == 0 || bytes.Equal(id, []byte("null")):
		r.ID = ""
	case id[0] == '"':
		if err := json.Unmarshal(id, &r.ID); err != nil {
			return err
		}
	default:
		r.ID = string(id)
	}
	return nil
}

func (r Row) String() string {
	return fmt.Sprintf("%s %s", r.Date, r.Content)
}

// Index maps a day to its notes in creation order.
type Index map[datekey.Key][]Row

// Build groups rows by date. Rows keep the relative order they had in the
// input, which callers pass sorted by creation time.
func Build(rows []Row) Index {
	idx := make(Index)
	for _, r := range rows {
		idx[r.Date] = append(idx[r.Date], r)
	}
	return idx
}

// Count returns the number of notes on key.
func (idx Index) Count(key datekey.Key) int {
	return len(idx[key])
}

// Notes returns the notes on key, nil when there are none.
func (idx Index) Notes(key datekey.Key) []Row {
	return idx[key]
}

// Len returns the total number of notes held.
func (idx Index) Len() int {
	n := 0
	for _, rows := range idx {
		n += len(rows)
	}
	return n
}

// CountFor is Count for a possibly nil index.
func CountFor(idx Index, key datekey.Key) int {
	return idx.Count(key)
}

// Label renders the per-day annotation shown next to a day.
func Label(count int) string {
	return fmt.Sprintf("%d nota(s)", count)
}
