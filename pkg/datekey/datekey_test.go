package datekey

import (
	"errors"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestEncodePadsMonthAndDay(t *testing.T) {
	tests := []struct {
		year, month, day int
		want             Key
	}{
		{2025, 0, 1, "2025-01-01"},
		{2025, 2, 31, "2025-03-31"},
		{2024, 11, 9, "2024-12-09"},
		{2023, 1, 31, "2023-02-31"},
	}
	for _, tt := range tests {
		if got := Encode(tt.year, tt.month, tt.day); got != tt.want {
			t.Fatalf("Encode(%d, %d, %d) = %q, want %q", tt.year, tt.month, tt.day, got, tt.want)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, in := range []Key{"", "2025", "2025-03", "2025-03-01-02", "2025-xx-01", "2025--01", "abcd-ef-gh", "2025-+3-01", "+2025-03-01", "2025-03- 1"} {
		if _, _, _, err := Decode(in); !errors.Is(err, ErrMalformedKey) {
			t.Fatalf("Decode(%q): expected ErrMalformedKey, got %v", in, err)
		}
	}
}

func TestDecodeZeroIndexesMonth(t *testing.T) {
	y, m, d, err := Decode("2025-06-07")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if y != 2025 || m != 5 || d != 7 {
		t.Fatalf("got %d-%d-%d, want 2025-5-7", y, m, d)
	}
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		y := rapid.IntRange(0, 9999).Draw(t, "year")
		m := rapid.IntRange(0, 11).Draw(t, "month")
		last := time.Date(y, time.Month(m+2), 0, 0, 0, 0, 0, time.UTC).Day()
		d := rapid.IntRange(1, last).Draw(t, "day")

		gy, gm, gd, err := Decode(Encode(y, m, d))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if gy != y || gm != m || gd != d {
			t.Fatalf("round trip (%d,%d,%d) -> (%d,%d,%d)", y, m, d, gy, gm, gd)
		}
	})
}

func TestKeysSortLikeDates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := time.Unix(rapid.Int64Range(946684800, 4102444800).Draw(t, "a"), 0).UTC()
		b := time.Unix(rapid.Int64Range(946684800, 4102444800).Draw(t, "b"), 0).UTC()
		ka, kb := FromTime(a), FromTime(b)
		da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
		db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
		if da.Before(db) != (ka < kb) {
			t.Fatalf("ordering mismatch: %s vs %s", ka, kb)
		}
	})
}

func TestParseAndValid(t *testing.T) {
	if _, err := Parse("2024-02-29"); err != nil {
		t.Fatalf("leap day should parse: %v", err)
	}
	if _, err := Parse("2023-02-29"); !errors.Is(err, ErrMalformedKey) {
		t.Fatalf("2023-02-29 should be rejected, got %v", err)
	}
	if Key("2025-13-01").Valid() {
		t.Fatalf("month 13 should be invalid")
	}
	k, err := Parse(" 2025-03-01 ")
	if err != nil || k != "2025-03-01" {
		t.Fatalf("Parse trimmed = %q, %v", k, err)
	}
}

func TestTime(t *testing.T) {
	got := Key("2025-03-09").Time(time.UTC)
	want := time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Time() = %v, want %v", got, want)
	}
	if !Key("nope").Time(time.UTC).IsZero() {
		t.Fatalf("malformed key should give zero time")
	}
}
