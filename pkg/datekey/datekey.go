// Package datekey converts between calendar days and their canonical
// YYYY-MM-DD string form used as the note date column.
package datekey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the time layout matching an encoded Key.
const Layout = "2006-01-02"

// ErrMalformedKey is returned when a key does not hold three dash separated
// numeric components.
var ErrMalformedKey = errors.New("datekey: malformed key")

// Key identifies a calendar day as YYYY-MM-DD.
type Key string

// Encode builds a key from a year, a zero-indexed month and a day. No calendar
// validation is done; February 31 encodes as "YYYY-02-31". Years are not
// padded, so year 999 encodes as "999-01-01".
func Encode(year, month, day int) Key {
	return Key(fmt.Sprintf("%d-%02d-%02d", year, month+1, day))
}

// Decode splits a key back into year, zero-indexed month and day.
func Decode(k Key) (year, month, day int, err error) {
	parts := strings.Split(string(k), "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, string(k))
	}
	nums := make([]int, 3)
	for i, p := range parts {
		if p == "" || p[0] < '0' || p[0] > '9' {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, string(k))
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedKey, string(k))
		}
		nums[i] = n
	}
	return nums[0], nums[1] - 1, nums[2], nil
}

// FromTime returns the key for the day t falls on in its own location.
func FromTime(t time.Time) Key {
	return Encode(t.Year(), int(t.Month())-1, t.Day())
}

// Parse validates s as a key for a real calendar day.
func Parse(s string) (Key, error) {
	k := Key(strings.TrimSpace(s))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	return k, nil
}

// Valid reports whether k decodes and names a day that exists.
func (k Key) Valid() bool {
	y, m, d, err := Decode(k)
	if err != nil || m < 0 || m > 11 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m+1), d, 0, 0, 0, 0, time.UTC)
	return t.Day() == d && int(t.Month()) == m+1
}

// Time returns midnight of the day in loc. Malformed keys yield the zero time.
func (k Key) Time(loc *time.Location) time.Time {
	y, m, d, err := Decode(k)
	if err != nil {
		return time.Time{}
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Date(y, time.Month(m+1), d, 0, 0, 0, 0, loc)
}

func (k Key) String() string { return string(k) }
