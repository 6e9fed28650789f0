package schedule

import (
	"fmt"
	"strings"
	"time"
)

const (
	gridOn  = "#"
	gridOff = "."
)

// FormatList returns one line per segment, e.g. "monday     9:30 - 14:00".
func FormatList(segs []Segment) string {
	if len(segs) == 0 {
		return "No recording scheduled\n"
	}

	var b strings.Builder
	for _, seg := range segs {
		b.WriteString(fmt.Sprintf("%-10s %5s - %5s  (%s)\n",
			seg.Day, seg.Start, seg.End, FormatDuration(seg.Duration())))
	}
	return b.String()
}

// FormatGrid renders the week as a 7x48 grid, one row per day and one
// column per half-hour block.
//
//	          0   2   4   6   8   10  12  14  16  18  20  22
//	monday    ......................#########...................
func FormatGrid(week Week) string {
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", 10))
	for hour := 0; hour < 24; hour += 2 {
		b.WriteString(fmt.Sprintf("%-4d", hour))
	}
	b.WriteString("\n")

	for _, day := range AllWeekdays {
		b.WriteString(fmt.Sprintf("%-10s", day))
		b.WriteString(FormatDayRow(week[day]))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatDayRow renders one day as 48 characters.
func FormatDayRow(mask DayBitmask) string {
	var b strings.Builder
	b.Grow(BlocksPerDay)
	for i := 0; i < BlocksPerDay; i++ {
		if mask.Has(i) {
			b.WriteString(gridOn)
		} else {
			b.WriteString(gridOff)
		}
	}
	return b.String()
}

// Summary returns a one-line summary such as
// "3 segments on 2 days, 12h30m per week".
func Summary(week Week) string {
	segs := Decode(week)
	days := 0
	for _, day := range AllWeekdays {
		if week[day] != 0 {
			days++
		}
	}
	return fmt.Sprintf("%d segment%s on %d day%s, %s per week",
		len(segs), plural(len(segs)), days, plural(days), FormatDuration(week.Duration()))
}

// FormatDuration renders whole hours and half hours compactly: "4h30m", "2h", "30m".
func FormatDuration(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh%02dm", hours, minutes)
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
