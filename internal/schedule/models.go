package schedule

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"time"
)

const (
	// BlocksPerDay is the number of 30-minute blocks in a day's bitmask
	BlocksPerDay = 48

	// BlockDuration is the length of one schedule block
	BlockDuration = 30 * time.Minute

	// DaysPerWeek is the number of per-day bitmasks the camera stores
	DaysPerWeek = 7

	// EndOfDay is the exclusive block index for a segment ending at midnight
	EndOfDay TimeSlot = BlocksPerDay

	// FullDay is a bitmask with every block of the day set
	FullDay DayBitmask = 1<<BlocksPerDay - 1
)

// Weekday identifies one of the camera's seven per-day schedule slots.
// The numeric value is the device slot number (schedule0 is Monday).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [DaysPerWeek]string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// AllWeekdays lists the weekdays in device slot order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Workdays lists Monday through Friday.
var Workdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// Weekend lists Saturday and Sunday.
var Weekend = []Weekday{Saturday, Sunday}

// Index returns the device slot number (0-6) for the weekday.
func (d Weekday) Index() int {
	return int(d)
}

// Valid reports whether d is one of the seven recognised weekdays.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the lower-case weekday name.
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// ParamName returns the request parameter carrying this day's bitmask.
func (d Weekday) ParamName() string {
	return "schedule" + strconv.Itoa(int(d))
}

// MarshalText encodes the weekday as its lower-case name.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, invalidDay(d.String())
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a weekday name.
func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekday parses a weekday name case-insensitively.
// Only the seven full English names are accepted.
func ParseWeekday(name string) (Weekday, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, n := range weekdayNames {
		if n == normalized {
			return Weekday(i), nil
		}
	}
	return 0, invalidDay(name)
}

// WeekdayFromIndex returns the weekday stored in device slot i.
func WeekdayFromIndex(i int) (Weekday, error) {
	d := Weekday(i)
	if !d.Valid() {
		return 0, invalidDay(strconv.Itoa(i))
	}
	return d, nil
}

// TimeSlot is a half-hour aligned point in the day, expressed as a block
// index from 0 (midnight) to 48 (end of day).
type TimeSlot int

// Valid reports whether the slot is within 0-48.
func (t TimeSlot) Valid() bool {
	return t >= 0 && t <= EndOfDay
}

// Hour returns the hour component (0-24).
func (t TimeSlot) Hour() int {
	return int(t) / 2
}

// Minute returns the minute component (0 or 30).
func (t TimeSlot) Minute() int {
	return (int(t) % 2) * 30
}

// Offset returns the time since midnight.
func (t TimeSlot) Offset() time.Duration {
	return time.Duration(t) * BlockDuration
}

// String renders the slot as "H:MM" without hour padding, e.g. "9:30".
func (t TimeSlot) String() string {
	return BlockToTime(int(t))
}

// MarshalText encodes the slot as "H:MM".
func (t TimeSlot) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: block index %d out of range", ErrInvalidSegment, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes "H:MM" or "HH:MM".
func (t *TimeSlot) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeSlot(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// BlockToTime renders block index i as "H:MM": the hour is i/2 and the
// minutes are "00" for even indices and "30" for odd ones.
func BlockToTime(i int) string {
	minute := "00"
	if i%2 != 0 {
		minute = "30"
	}
	return strconv.Itoa(i/2) + ":" + minute
}

// ParseTimeSlot parses "H:MM" into a block index using
// hour*2 + (minute >= 30 ? 1 : 0). Hours run 0-24 and "24:00" is the
// end of day. The camera only switches recording on the hour and half
// hour, so minutes other than 00 and 30 are rejected.
func ParseTimeSlot(s string) (TimeSlot, error) {
	text := strings.TrimSpace(s)
	hourText, minuteText, ok := strings.Cut(text, ":")
	if !ok {
		return 0, invalidTime(s, "expected H:MM")
	}

	if !isDigits(hourText) || len(hourText) > 2 {
		return 0, invalidTime(s, "hour is not a number")
	}
	if !isDigits(minuteText) || len(minuteText) != 2 {
		return 0, invalidTime(s, "minute must be two digits")
	}
	hour, _ := strconv.Atoi(hourText)
	minute, _ := strconv.Atoi(minuteText)

	if hour < 0 || hour > 24 {
		return 0, invalidTime(s, "hour must be 0-24")
	}
	if minute != 0 && minute != 30 {
		return 0, invalidTime(s, "minute must be 00 or 30")
	}
	if hour == 24 && minute != 0 {
		return 0, invalidTime(s, "nothing is scheduled after 24:00")
	}

	slot := hour * 2
	if minute >= 30 {
		slot++
	}
	return TimeSlot(slot), nil
}

// Segment is a recording period on one weekday. End is exclusive.
type Segment struct {
	Day   Weekday  `json:"day" yaml:"day"`
	Start TimeSlot `json:"start" yaml:"start"`
	End   TimeSlot `json:"end" yaml:"end"`
}

// NewSegment returns a validated segment.
func NewSegment(day Weekday, start, end TimeSlot) (Segment, error) {
	seg := Segment{Day: day, Start: start, End: end}
	if err := seg.Validate(); err != nil {
		return Segment{}, err
	}
	return seg, nil
}

// Validate checks the day is recognised, both slots are within 0-48 and
// the segment spans at least one block.
func (s Segment) Validate() error {
	if !s.Day.Valid() {
		return invalidDay(s.Day.String())
	}
	if !s.Start.Valid() {
		return &SegmentError{Segment: s, Reason: fmt.Sprintf("start block %d out of range 0-48", int(s.Start))}
	}
	if !s.End.Valid() {
		return &SegmentError{Segment: s, Reason: fmt.Sprintf("end block %d out of range 0-48", int(s.End))}
	}
	if s.Start >= s.End {
		return &SegmentError{Segment: s, Reason: "start must be before end"}
	}
	return nil
}

// Blocks returns the number of 30-minute blocks covered.
func (s Segment) Blocks() int {
	if s.End <= s.Start {
		return 0
	}
	return int(s.End - s.Start)
}

// Duration returns the recording time covered by the segment.
func (s Segment) Duration() time.Duration {
	return time.Duration(s.Blocks()) * BlockDuration
}

// Mask returns the day bitmask covering the segment.
func (s Segment) Mask() DayBitmask {
	return SpanMask(s.Start, s.End)
}

// String returns e.g. "monday 9:30-14:00".
func (s Segment) String() string {
	return fmt.Sprintf("%s %s-%s", s.Day, s.Start, s.End)
}

// DayBitmask holds one day's schedule: bit i set means block i records.
// Only the low 48 bits are meaningful.
type DayBitmask uint64

// isDigits reports whether s is non-empty ASCII digits, with no sign.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// SpanMask returns a mask with bits [start, end) set.
func SpanMask(start, end TimeSlot) DayBitmask {
	if start < 0 {
		start = 0
	}
	if end > EndOfDay {
		end = EndOfDay
	}
	if end <= start {
		return 0
	}
	return DayBitmask(uint64(1)<<uint(end) - uint64(1)<<uint(start))
}

// Has reports whether block i is scheduled.
func (m DayBitmask) Has(i int) bool {
	if i < 0 || i >= BlocksPerDay {
		return false
	}
	return m&(1<<uint(i)) != 0
}

// Valid reports whether no bit above block 47 is set.
func (m DayBitmask) Valid() bool {
	return m&^FullDay == 0
}

// Blocks returns the number of scheduled blocks.
func (m DayBitmask) Blocks() int {
	return bits.OnesCount64(uint64(m & FullDay))
}

// Duration returns the scheduled recording time for the day.
func (m DayBitmask) Duration() time.Duration {
	return time.Duration(m.Blocks()) * BlockDuration
}

// String returns the decimal wire representation.
func (m DayBitmask) String() string {
	return strconv.FormatUint(uint64(m), 10)
}

// ParseDayBitmask parses the decimal wire representation of a day's mask.
func ParseDayBitmask(s string) (DayBitmask, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid day bitmask %q: %w", s, err)
	}
	m := DayBitmask(v)
	if !m.Valid() {
		return 0, fmt.Errorf("day bitmask %q has bits beyond block %d", s, BlocksPerDay-1)
	}
	return m, nil
}

// Week holds the seven day bitmasks indexed by Weekday.
type Week [DaysPerWeek]DayBitmask

// Day returns the mask for d.
func (w Week) Day(d Weekday) DayBitmask {
	if !d.Valid() {
		return 0
	}
	return w[d]
}

// IsZero reports whether nothing is scheduled on any day.
func (w Week) IsZero() bool {
	return w == Week{}
}

// Blocks returns the number of scheduled blocks over the whole week.
func (w Week) Blocks() int {
	total := 0
	for _, m := range w {
		total += m.Blocks()
	}
	return total
}

// Duration returns the total scheduled recording time for the week.
func (w Week) Duration() time.Duration {
	return time.Duration(w.Blocks()) * BlockDuration
}

// DiffDays returns the weekdays whose masks differ between w and other.
func (w Week) DiffDays(other Week) []Weekday {
	var days []Weekday
	for _, d := range AllWeekdays {
		if w[d] != other[d] {
			days = append(days, d)
		}
	}
	return days
}
