package schedule

import (
	"fmt"
	"sort"
)

// ParseSegment builds a segment from text input such as
// ("monday", "09:30", "14:00").
func ParseSegment(day, start, end string) (Segment, error) {
	d, err := ParseWeekday(day)
	if err != nil {
		return Segment{}, err
	}
	s, err := ParseTimeSlot(start)
	if err != nil {
		return Segment{}, err
	}
	e, err := ParseTimeSlot(end)
	if err != nil {
		return Segment{}, err
	}
	return NewSegment(d, s, e)
}

// ParseSegments parses flat (day, start, end) triples, as given on a
// command line.
func ParseSegments(args []string) ([]Segment, error) {
	if len(args)%3 != 0 {
		return nil, &SegmentError{
			Input:  fmt.Sprint(args),
			Reason: "expected groups of <day> <start> <end>",
		}
	}

	segments := make([]Segment, 0, len(args)/3)
	for i := 0; i < len(args); i += 3 {
		seg, err := ParseSegment(args[i], args[i+1], args[i+2])
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// ValidateWeekday checks d is one of the seven recognised weekdays.
func ValidateWeekday(d Weekday) error {
	if !d.Valid() {
		return invalidDay(d.String())
	}
	return nil
}

// ValidateTimeSlot checks a block index is within 0-48.
func ValidateTimeSlot(t TimeSlot) error {
	if !t.Valid() {
		return &SegmentError{Input: fmt.Sprint(int(t)), Reason: "block index must be 0-48"}
	}
	return nil
}

// ValidateSegments validates every segment and returns all failures
// (empty if valid), each prefixed with the segment's position.
func ValidateSegments(segs []Segment) []error {
	var errs []error
	for i, seg := range segs {
		if err := seg.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("segment %d: %w", i+1, err))
		}
	}
	return errs
}

// ValidateWeek checks that no day carries bits beyond block 47.
func ValidateWeek(week Week) error {
	for _, day := range AllWeekdays {
		if !week[day].Valid() {
			return fmt.Errorf("%s: bitmask %s has bits beyond block %d", day, week[day], BlocksPerDay-1)
		}
	}
	return nil
}

// Overlap names two input segments that share at least one block.
type Overlap struct {
	First  Segment
	Second Segment
}

// String returns a human-readable description.
func (o Overlap) String() string {
	return fmt.Sprintf("%s overlaps %s", o.First, o.Second)
}

// FindOverlaps reports pairs of segments on the same day that share
// blocks. Overlaps are legal (the bits merge) but usually a typo.
// Segments that merely touch end-to-start are not reported.
func FindOverlaps(segs []Segment) []Overlap {
	sorted := make([]Segment, len(segs))
	copy(sorted, segs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].Start < sorted[j].Start
	})

	var overlaps []Overlap
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Day != sorted[i].Day || sorted[j].Start >= sorted[i].End {
				break
			}
			overlaps = append(overlaps, Overlap{First: sorted[i], Second: sorted[j]})
		}
	}
	return overlaps
}
