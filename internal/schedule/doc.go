// Package schedule implements the Foscam weekly recording schedule codec.
//
// The camera stores its recording schedule as seven 48-bit bitmasks, one per
// weekday. Bit i of a day's mask covers the 30-minute block starting i*30
// minutes after midnight, so bit 0 is 00:00-00:30 and bit 47 is 23:30-24:00.
// On the wire each mask travels as a decimal integer in the schedule0 ..
// schedule6 request parameters, with schedule0 being Monday.
//
// This package translates between that encoding and a list of Segment
// values, each naming a weekday and a half-hour aligned start and end.
//
// # Block Indices
//
// A TimeSlot is a block index in the range 0-48. Index 48 is the end of the
// day and is only meaningful as the End of a segment. Segment ends are
// exclusive: a segment from 9:30 to 14:00 sets bits 19 through 27 and leaves
// bit 28 clear.
//
// # Decoding
//
// Each run of consecutive set bits in a day's mask decodes to exactly one
// Segment. Two segments that touch end-to-start therefore come back as a
// single segment, and overlapping segments merge.
//
//	week := schedule.Week{}
//	week[schedule.Monday] = 267911168
//	for _, seg := range schedule.Decode(week) {
//	    fmt.Println(seg) // monday 9:30-14:00
//	}
//
// # Encoding
//
// Encode ORs segments into a base week. Pass the zero Week to replace the
// whole schedule, or the week currently stored on the camera to keep the
// days and blocks the input does not mention.
//
//	seg, err := schedule.ParseSegment("monday", "09:30", "14:00")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	week, err := schedule.Encode(schedule.Week{}, []schedule.Segment{seg})
//
// # Error Handling
//
// Every malformed input (unknown day, time outside 0:00-24:00, start not
// before end) is reported as a *SegmentError, which matches
// ErrInvalidSegment under errors.Is. Encode validates all segments before
// touching the result, so a failed call never yields a partial week.
//
// # Thread Safety
//
// All functions are pure. Week and DayBitmask are values and safe to copy.
// A Builder is not safe for concurrent use.
package schedule
