package schedule

// Builder provides a fluent API for assembling a week schedule.
// It records the first error encountered and reports it from Build,
// so calls can be chained without checking each step.
//
// Example usage:
//
//	week, err := schedule.NewBuilder(current).
//	    ClearDay(schedule.Saturday).
//	    AddRange(schedule.Monday, "9:30", "14:00").
//	    AddDays(schedule.Workdays, "22:00", "24:00").
//	    Build()
type Builder struct {
	// current is the baseline the builder was created from
	current Week

	// base is current with any cleared days zeroed
	base Week

	segments []Segment
	cleared  map[Weekday]bool
	err      error
}

// NewBuilder creates a builder starting from current. Pass the zero Week
// to start from an empty schedule.
func NewBuilder(current Week) *Builder {
	return &Builder{
		current: current,
		base:    current,
		cleared: make(map[Weekday]bool),
	}
}

// Add appends a segment.
func (b *Builder) Add(seg Segment) *Builder {
	if b.err != nil {
		return b
	}
	if err := seg.Validate(); err != nil {
		b.err = err
		return b
	}
	b.segments = append(b.segments, seg)
	return b
}

// AddRange parses start and end ("H:MM") and appends the segment for day.
func (b *Builder) AddRange(day Weekday, start, end string) *Builder {
	if b.err != nil {
		return b
	}
	seg, err := ParseSegment(day.String(), start, end)
	if err != nil {
		b.err = err
		return b
	}
	return b.Add(seg)
}

// AddDays appends the same time range on every listed day.
func (b *Builder) AddDays(days []Weekday, start, end string) *Builder {
	for _, day := range days {
		b.AddRange(day, start, end)
	}
	return b
}

// AddAllDay schedules the whole of day.
func (b *Builder) AddAllDay(day Weekday) *Builder {
	return b.Add(Segment{Day: day, Start: 0, End: EndOfDay})
}

// ClearDay removes everything scheduled on day, including segments added
// to the builder so far. Segments added afterwards still apply.
func (b *Builder) ClearDay(day Weekday) *Builder {
	if b.err != nil {
		return b
	}
	if !day.Valid() {
		b.err = invalidDay(day.String())
		return b
	}

	b.base[day] = 0
	b.cleared[day] = true

	kept := b.segments[:0]
	for _, seg := range b.segments {
		if seg.Day != day {
			kept = append(kept, seg)
		}
	}
	b.segments = kept
	return b
}

// ClearAll removes everything, equivalent to starting from the zero Week.
func (b *Builder) ClearAll() *Builder {
	for _, day := range AllWeekdays {
		b.ClearDay(day)
	}
	return b
}

// Segments returns the segments added so far.
func (b *Builder) Segments() []Segment {
	out := make([]Segment, len(b.segments))
	copy(out, b.segments)
	return out
}

// HasChanges reports whether any day was cleared or any segment added.
func (b *Builder) HasChanges() bool {
	return len(b.segments) > 0 || len(b.cleared) > 0
}

// Err returns the first error recorded, if any.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the resulting week.
func (b *Builder) Build() (Week, error) {
	if b.err != nil {
		return Week{}, b.err
	}
	return Encode(b.base, b.segments)
}

// Reset discards all changes and restores the baseline.
func (b *Builder) Reset() *Builder {
	b.base = b.current
	b.segments = nil
	b.cleared = make(map[Weekday]bool)
	b.err = nil
	return b
}
