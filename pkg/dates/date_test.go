package dates

import (
	"testing"
	"time"
)

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		name   string
		start  Date
		months int
		want   Date
	}{
		{"plain", New(2025, time.January, 1), 1, New(2025, time.February, 1)},
		{"jan31 plus one", New(2025, time.January, 31), 1, New(2025, time.February, 28)},
		{"jan31 plus one leap", New(2024, time.January, 31), 1, New(2024, time.February, 29)},
		{"jan31 plus two skips intermediate clamp", New(2025, time.January, 31), 2, New(2025, time.March, 31)},
		{"oct31 plus one", New(2025, time.October, 31), 1, New(2025, time.November, 30)},
		{"year rollover", New(2025, time.November, 15), 3, New(2026, time.February, 15)},
		{"zero months", New(2025, time.June, 30), 0, New(2025, time.June, 30)},
		{"many months", New(2025, time.January, 31), 13, New(2026, time.February, 28)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.start.AddMonths(tc.months)
			if !got.Equal(tc.want) {
				t.Fatalf("%s + %d months: expected %s, got %s", tc.start, tc.months, tc.want, got)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	parsed, err := Parse("2025-03-10")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.String() != "2025-03-10" {
		t.Fatalf("expected 2025-03-10, got %s", parsed)
	}
	if _, err := Parse("10/03/2025"); err == nil {
		t.Fatalf("expected error for non ISO input")
	}
}

func TestScanAcceptsDriverFormats(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2025, time.May, 2, 13, 45, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2025-05-02" {
		t.Fatalf("expected 2025-05-02, got %s", d)
	}

	if err := d.Scan("2025-01-31 00:00:00"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2025-01-31" {
		t.Fatalf("expected 2025-01-31, got %s", d)
	}

	if err := d.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !d.IsZero() {
		t.Fatalf("expected zero date after nil scan")
	}
}
