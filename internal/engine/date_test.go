package engine

import (
	"testing"
	"time"
)

func TestDateArithmetic(t *testing.T) {
	d := Date("2025-03-01")
	if got := d.Prev(); got != "2025-02-28" {
		t.Fatalf("Prev across month=%s, want 2025-02-28", got)
	}
	if got := Date("2024-03-01").Prev(); got != "2024-02-29" {
		t.Fatalf("Prev leap year=%s, want 2024-02-29", got)
	}
	if got := Date("2024-12-31").Next(); got != "2025-01-01" {
		t.Fatalf("Next across year=%s, want 2025-01-01", got)
	}
	if got := Date("garbage").Prev(); !got.IsZero() {
		t.Fatalf("Prev of malformed date=%q, want zero", got)
	}
}

func TestParseDateRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "2025-13-01", "2025-02-30", "03/01/2025", "2025-3-1"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("ParseDate(%q) succeeded, want error", bad)
		}
	}
	if d, err := ParseDate("2025-06-15"); err != nil || d != "2025-06-15" {
		t.Fatalf("ParseDate(2025-06-15)=%q, %v", d, err)
	}
}

func TestDateOfUsesLocalCalendar(t *testing.T) {
	at := time.Date(2025, 6, 15, 23, 30, 0, 0, time.Local)
	if got := DateOf(at); got != "2025-06-15" {
		t.Fatalf("DateOf=%s, want 2025-06-15", got)
	}
}

func TestFixedClock(t *testing.T) {
	c := FixedClock("2025-01-10")
	if got := c.Today(); got != "2025-01-10" {
		t.Fatalf("FixedClock.Today=%s", got)
	}
}
