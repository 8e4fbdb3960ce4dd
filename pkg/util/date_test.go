package util

import (
	"testing"
	"time"
)

func TestParseQuotaDateISO(t *testing.T) {
	got, ok := ParseQuotaDate("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseQuotaDateRFC3339(t *testing.T) {
	got, ok := ParseQuotaDate("2024-10-10T15:04:05Z")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseQuotaDateInvalid(t *testing.T) {
	if _, ok := ParseQuotaDate(""); ok {
		t.Fatalf("expected not ok for empty input")
	}
	if _, ok := ParseQuotaDate("10/10/2024"); ok {
		t.Fatalf("expected not ok for unsupported format")
	}
}

func TestFormatQuotaDate(t *testing.T) {
	d := time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC)
	if got := FormatQuotaDate(d); got != "2024-01-02" {
		t.Fatalf("unexpected format %q", got)
	}
}
