package schedule

import (
	"strings"
	"testing"
	"time"
)

func TestFormatList(t *testing.T) {
	if got := FormatList(nil); got != "No recording scheduled\n" {
		t.Errorf("FormatList(nil) = %q", got)
	}

	got := FormatList([]Segment{{Day: Monday, Start: 19, End: 28}})
	want := "monday      9:30 - 14:00  (4h30m)\n"
	if got != want {
		t.Errorf("FormatList() = %q, want %q", got, want)
	}
}

func TestFormatGrid(t *testing.T) {
	week := Week{}
	week[Monday] = SpanMask(19, 28)

	lines := strings.Split(strings.TrimSuffix(FormatGrid(week), "\n"), "\n")
	if len(lines) != 1+DaysPerWeek {
		t.Fatalf("FormatGrid() has %d lines, want %d", len(lines), 1+DaysPerWeek)
	}
	if !strings.HasPrefix(lines[0], "          0   2   4") {
		t.Errorf("header = %q", lines[0])
	}

	monday := lines[1]
	if !strings.HasPrefix(monday, "monday    ") {
		t.Errorf("monday row = %q", monday)
	}
	row := strings.TrimPrefix(monday, "monday    ")
	want := strings.Repeat(".", 19) + strings.Repeat("#", 9) + strings.Repeat(".", 20)
	if row != want {
		t.Errorf("monday cells = %q, want %q", row, want)
	}

	if strings.Contains(lines[7], "#") {
		t.Errorf("sunday row should be empty: %q", lines[7])
	}
}

func TestSummary(t *testing.T) {
	week := Week{}
	week[Monday] = SpanMask(19, 28) | SpanMask(32, 36)
	week[Friday] = SpanMask(0, 1)

	want := "3 segments on 2 days, 7h per week"
	if got := Summary(week); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	if got := Summary(Week{}); got != "0 segments on 0 days, 0m per week" {
		t.Errorf("Summary(empty) = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0m"},
		{30 * time.Minute, "30m"},
		{2 * time.Hour, "2h"},
		{4*time.Hour + 30*time.Minute, "4h30m"},
		{24 * time.Hour, "24h"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
