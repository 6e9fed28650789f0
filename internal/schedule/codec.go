package schedule

// DecodeDay converts one day's bitmask into segments. Each run of
// consecutive set bits yields one segment, in ascending start order, with
// End set to the first clear block after the run (or EndOfDay).
func DecodeDay(day Weekday, mask DayBitmask) []Segment {
	var segments []Segment

	i := 0
	for i < BlocksPerDay {
		if !mask.Has(i) {
			i++
			continue
		}

		start := i
		for i < BlocksPerDay && mask.Has(i) {
			i++
		}
		segments = append(segments, Segment{
			Day:   day,
			Start: TimeSlot(start),
			End:   TimeSlot(i),
		})
	}

	return segments
}

// Decode converts a week of bitmasks into segments, Monday first.
// Days with no scheduled blocks contribute nothing.
func Decode(week Week) []Segment {
	segments := []Segment{}
	for _, day := range AllWeekdays {
		segments = append(segments, DecodeDay(day, week[day])...)
	}
	return segments
}

// Encode ORs segments into a copy of base and returns the result.
//
// Pass the zero Week as base to replace the whole schedule, or the
// camera's current week to keep everything the segments do not cover.
// Overlapping or duplicate segments merge. All segments are validated
// before any bit is set; on error the returned week is base unchanged.
func Encode(base Week, segments []Segment) (Week, error) {
	for _, seg := range segments {
		if err := seg.Validate(); err != nil {
			return base, err
		}
	}

	week := base
	for _, seg := range segments {
		week[seg.Day] |= seg.Mask()
	}
	return week, nil
}

// Normalize returns the canonical form of segs: merged into maximal runs
// and ordered by day then start. It is Decode(Encode(Week{}, segs)).
func Normalize(segs []Segment) ([]Segment, error) {
	week, err := Encode(Week{}, segs)
	if err != nil {
		return nil, err
	}
	return Decode(week), nil
}
