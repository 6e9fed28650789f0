package schedule

import (
	"errors"
	"fmt"
)

// ErrInvalidSegment is matched by every error describing a malformed segment.
var ErrInvalidSegment = errors.New("invalid schedule segment")

// SegmentError describes why a segment or one of its parts was rejected.
type SegmentError struct {
	Segment Segment // Offending segment, zero when the failure was in parsing
	Input   string  // Raw text that failed to parse, if any
	Reason  string
}

// Error implements the error interface
func (e *SegmentError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s %q: %s", ErrInvalidSegment, e.Input, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", ErrInvalidSegment, e.Segment, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidSegment
func (e *SegmentError) Unwrap() error {
	return ErrInvalidSegment
}

// IsInvalidSegment reports whether err describes a malformed segment.
func IsInvalidSegment(err error) bool {
	return errors.Is(err, ErrInvalidSegment)
}

func invalidDay(name string) *SegmentError {
	return &SegmentError{Input: name, Reason: "unknown weekday (want monday-sunday)"}
}

func invalidTime(text, reason string) *SegmentError {
	return &SegmentError{Input: text, Reason: reason}
}
