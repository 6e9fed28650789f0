package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/foscam/internal/schedule"
)

// day label, 48 cells, padding and border
const minGridWidth = 11 + schedule.BlocksPerDay + 4 + 2

// RenderScheduleGrid renders the week as one row per day and one cell
// per half-hour block, with an hour ruler above and a summary below.
func RenderScheduleGrid(week schedule.Week, width int) string {
	if width < minGridWidth {
		width = minGridWidth
	}

	var rows []string
	rows = append(rows, GridDayStyle.Render("")+GridRulerStyle.Render(hourRuler()))

	for _, day := range schedule.AllWeekdays {
		rows = append(rows, GridDayStyle.Render(day.String())+renderDayCells(week[day]))
	}

	rows = append(rows, "", StepNoteStyle.Render(schedule.Summary(week)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width-2).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}

// RenderSegmentList renders the recording windows as a list, one per line.
func RenderSegmentList(segs []schedule.Segment) string {
	if len(segs) == 0 {
		return StepPendingStyle.Render("  No recording scheduled")
	}

	lines := make([]string, 0, len(segs))
	for _, seg := range segs {
		span := fmt.Sprintf("%5s - %5s", seg.Start, seg.End)
		lines = append(lines, "  "+GridDayStyle.Render(seg.Day.String())+
			StepCompleteStyle.Render(span)+"  "+
			StepNoteStyle.Render(schedule.FormatDuration(seg.Duration())))
	}
	return strings.Join(lines, "\n")
}

func renderDayCells(mask schedule.DayBitmask) string {
	var b strings.Builder
	for i := 0; i < schedule.BlocksPerDay; {
		on := mask.Has(i)
		j := i
		for j < schedule.BlocksPerDay && mask.Has(j) == on {
			j++
		}
		if on {
			b.WriteString(GridOnStyle.Render(strings.Repeat(GridOnCell, j-i)))
		} else {
			b.WriteString(GridOffStyle.Render(strings.Repeat(GridOffCell, j-i)))
		}
		i = j
	}
	return b.String()
}

// hourRuler labels every second hour; each hour is two cells wide.
func hourRuler() string {
	var b strings.Builder
	for hour := 0; hour < 24; hour += 2 {
		b.WriteString(fmt.Sprintf("%-4d", hour))
	}
	return b.String()
}
