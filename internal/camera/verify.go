package camera

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/muurk/foscam/internal/schedule"
)

// VerificationOptions configures read-back after a schedule write.
// Verification re-reads the schedule; the write itself is never repeated.
type VerificationOptions struct {
	// MaxRetries is how many extra reads to make after the first
	// Default: 3
	MaxRetries int

	// InitialDelay gives the camera time to apply the write
	// Default: 500ms
	InitialDelay time.Duration

	// RetryDelay is the wait between reads
	// Default: 1s
	RetryDelay time.Duration

	// UseExponentialBackoff doubles RetryDelay after each read, up to MaxRetryDelay
	UseExponentialBackoff bool

	// MaxRetryDelay caps the backoff
	// Default: 5s
	MaxRetryDelay time.Duration
}

// DefaultVerificationOptions returns the options used when nil is passed.
func DefaultVerificationOptions() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:            3,
		InitialDelay:          500 * time.Millisecond,
		RetryDelay:            1 * time.Second,
		UseExponentialBackoff: true,
		MaxRetryDelay:         5 * time.Second,
	}
}

// VerificationResult reports how a read-back went.
type VerificationResult struct {
	Success  bool
	Attempts int

	// Actual is the last week read from the camera
	Actual *schedule.Week

	// Mismatches describes each day that differs from what was written
	Mismatches []string

	Error error
}

// VerifyWeek re-reads the schedule until it equals expected or the
// options run out. Only a mismatch leads to another read; a failed read
// ends verification with its error, since no request is ever retried.
func (c *Client) VerifyWeek(ctx context.Context, expected schedule.Week, opts *VerificationOptions) *VerificationResult {
	if opts == nil {
		opts = DefaultVerificationOptions()
	}

	result := &VerificationResult{Mismatches: []string{}}

	if err := sleep(ctx, opts.InitialDelay); err != nil {
		result.Error = err
		return result
	}

	delay := opts.RetryDelay
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result.Attempts++

		if attempt > 0 {
			if err := sleep(ctx, delay); err != nil {
				result.Error = err
				return result
			}
			if opts.UseExponentialBackoff {
				delay *= 2
				if delay > opts.MaxRetryDelay {
					delay = opts.MaxRetryDelay
				}
			}
		}

		actual, err := c.GetWeek(ctx)
		if err != nil {
			result.Error = fmt.Errorf("attempt %d: failed to read schedule: %w", attempt+1, err)
			return result
		}
		result.Actual = &actual
		result.Mismatches = weekMismatches(expected, actual)

		if len(result.Mismatches) == 0 {
			result.Success = true
			result.Error = nil
			return result
		}
		if attempt < opts.MaxRetries {
			result.Error = fmt.Errorf("attempt %d: schedule mismatch (will retry)", attempt+1)
		} else {
			result.Error = fmt.Errorf("verification failed after %d attempts: %s",
				result.Attempts, formatMismatches(result.Mismatches))
		}
	}
	return result
}

// SetScheduleAndVerify writes segs like SetSchedule and then reads the
// schedule back until it matches.
func (c *Client) SetScheduleAndVerify(ctx context.Context, segs []schedule.Segment, clearMissing bool, opts *VerificationOptions) *VerificationResult {
	if errs := schedule.ValidateSegments(segs); len(errs) > 0 {
		return &VerificationResult{Error: errs[0]}
	}

	var base schedule.Week
	if !clearMissing {
		current, err := c.GetWeek(ctx)
		if err != nil {
			return &VerificationResult{Error: fmt.Errorf("failed to fetch current schedule: %w", err)}
		}
		base = current
	}
	week, err := schedule.Encode(base, segs)
	if err != nil {
		return &VerificationResult{Error: err}
	}
	return c.SetWeekAndVerify(ctx, week, opts)
}

// SetWeekAndVerify writes week and reads it back.
func (c *Client) SetWeekAndVerify(ctx context.Context, week schedule.Week, opts *VerificationOptions) *VerificationResult {
	if _, err := c.SetWeek(ctx, week); err != nil {
		return &VerificationResult{Error: fmt.Errorf("update failed: %w", err)}
	}
	return c.VerifyWeek(ctx, week, opts)
}

func weekMismatches(expected, actual schedule.Week) []string {
	var out []string
	for _, day := range expected.DiffDays(actual) {
		out = append(out, fmt.Sprintf("%s: expected %s, got %s",
			day, describeDay(day, expected.Day(day)), describeDay(day, actual.Day(day))))
	}
	return out
}

func describeDay(day schedule.Weekday, mask schedule.DayBitmask) string {
	segs := schedule.DecodeDay(day, mask)
	if len(segs) == 0 {
		return "nothing"
	}
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Start.String() + "-" + s.End.String()
	}
	return strings.Join(parts, ",")
}

func formatMismatches(mismatches []string) string {
	switch len(mismatches) {
	case 0:
		return "none"
	case 1:
		return mismatches[0]
	}
	return fmt.Sprintf("%d mismatches: %s", len(mismatches), strings.Join(mismatches, "; "))
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
