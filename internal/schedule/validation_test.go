package schedule

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSegment(t *testing.T) {
	tests := []struct {
		name    string
		day     string
		start   string
		end     string
		want    Segment
		wantErr bool
	}{
		{
			name:  "padded hours",
			day:   "Monday",
			start: "09:30",
			end:   "14:00",
			want:  Segment{Day: Monday, Start: 19, End: 28},
		},
		{
			name:  "to midnight",
			day:   "sunday",
			start: "23:00",
			end:   "24:00",
			want:  Segment{Day: Sunday, Start: 46, End: 48},
		},
		{name: "unknown day", day: "someday", start: "9:00", end: "10:00", wantErr: true},
		{name: "empty range", day: "monday", start: "9:00", end: "9:00", wantErr: true},
		{name: "reversed range", day: "monday", start: "14:00", end: "9:30", wantErr: true},
		{name: "bad start", day: "monday", start: "25:00", end: "26:00", wantErr: true},
		{name: "bad end", day: "monday", start: "9:00", end: "9:10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSegment(tt.day, tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSegment) {
					t.Errorf("ParseSegment() error = %v, want ErrInvalidSegment", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSegment() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSegment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSegments(t *testing.T) {
	got, err := ParseSegments([]string{"monday", "9:30", "14:00", "friday", "0:00", "1:00"})
	if err != nil {
		t.Fatalf("ParseSegments() error = %v", err)
	}
	if len(got) != 2 || got[1].Day != Friday || got[1].End != 2 {
		t.Errorf("ParseSegments() = %v", got)
	}

	if _, err := ParseSegments([]string{"monday", "9:30"}); !IsInvalidSegment(err) {
		t.Errorf("incomplete triple error = %v, want invalid segment", err)
	}
	if _, err := ParseSegments([]string{"monday", "9:30", "9:00"}); !IsInvalidSegment(err) {
		t.Errorf("reversed triple error = %v, want invalid segment", err)
	}

	got, err = ParseSegments(nil)
	if err != nil || len(got) != 0 {
		t.Errorf("ParseSegments(nil) = %v, %v", got, err)
	}
}

func TestValidateSegments(t *testing.T) {
	segs := []Segment{
		{Day: Monday, Start: 0, End: 2},
		{Day: Monday, Start: 4, End: 2},
		{Day: Weekday(9), Start: 0, End: 2},
	}

	errs := ValidateSegments(segs)
	if len(errs) != 2 {
		t.Fatalf("ValidateSegments() returned %d errors, want 2", len(errs))
	}
	if !strings.HasPrefix(errs[0].Error(), "segment 2:") {
		t.Errorf("errs[0] = %q, want prefix %q", errs[0], "segment 2:")
	}
	if !IsInvalidSegment(errs[1]) {
		t.Errorf("errs[1] = %v, want invalid segment", errs[1])
	}

	if errs := ValidateSegments(segs[:1]); len(errs) != 0 {
		t.Errorf("ValidateSegments(valid) = %v", errs)
	}
}

func TestValidateWeek(t *testing.T) {
	week := Week{}
	week[Sunday] = FullDay
	if err := ValidateWeek(week); err != nil {
		t.Errorf("ValidateWeek(full sunday) = %v", err)
	}

	week[Tuesday] = 1 << 48
	if err := ValidateWeek(week); err == nil {
		t.Error("ValidateWeek() should reject bits beyond block 47")
	}
}

func TestFindOverlaps(t *testing.T) {
	segs := []Segment{
		{Day: Monday, Start: 20, End: 28},
		{Day: Monday, Start: 16, End: 22},
		{Day: Monday, Start: 28, End: 30}, // touches, does not overlap
		{Day: Tuesday, Start: 16, End: 22},
	}

	got := FindOverlaps(segs)
	if len(got) != 1 {
		t.Fatalf("FindOverlaps() = %v, want one overlap", got)
	}
	if got[0].First.Start != 16 || got[0].Second.Start != 20 {
		t.Errorf("FindOverlaps()[0] = %s", got[0])
	}
	if got[0].String() != "monday 8:00-11:00 overlaps monday 10:00-14:00" {
		t.Errorf("String() = %q", got[0].String())
	}
}
