package camera

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/muurk/foscam/internal/cgi"
	"github.com/muurk/foscam/internal/schedule"
)

func fastVerify() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:    2,
		InitialDelay:  0,
		RetryDelay:    5 * time.Millisecond,
		MaxRetryDelay: 20 * time.Millisecond,
	}
}

func TestDefaultVerificationOptions(t *testing.T) {
	opts := DefaultVerificationOptions()

	if opts.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", opts.MaxRetries)
	}
	if opts.InitialDelay != 500*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 500ms", opts.InitialDelay)
	}
	if opts.RetryDelay != time.Second || opts.MaxRetryDelay != 5*time.Second {
		t.Errorf("RetryDelay = %v, MaxRetryDelay = %v", opts.RetryDelay, opts.MaxRetryDelay)
	}
	if !opts.UseExponentialBackoff {
		t.Error("UseExponentialBackoff should default to true")
	}
}

func TestSetScheduleAndVerify_Success(t *testing.T) {
	c, cam := newTestClient(t)

	result := c.SetScheduleAndVerify(context.Background(),
		mustSegments(t, "monday", "9:30", "14:00", "saturday", "0:00", "24:00"), true, fastVerify())

	if !result.Success {
		t.Fatalf("verification failed: %v", result.Error)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if result.Actual == nil || *result.Actual != cam.Week() {
		t.Errorf("Actual = %v, camera has %v", result.Actual, cam.Week())
	}
	if result.Error != nil {
		t.Errorf("Error = %v on success", result.Error)
	}
}

func TestSetScheduleAndVerify_IgnoredWrite(t *testing.T) {
	c, cam := newTestClient(t)
	cam.IgnoreScheduleWrites(true)

	result := c.SetScheduleAndVerify(context.Background(),
		mustSegments(t, "monday", "9:30", "14:00"), true, fastVerify())

	if result.Success {
		t.Fatal("verification should fail when the camera ignores the write")
	}
	if result.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", result.Attempts)
	}
	if len(result.Mismatches) != 1 || result.Mismatches[0] != "monday: expected 9:30-14:00, got nothing" {
		t.Errorf("Mismatches = %q", result.Mismatches)
	}
	if result.Error == nil || !strings.Contains(result.Error.Error(), "after 3 attempts") {
		t.Errorf("Error = %v", result.Error)
	}

	writes := cam.CommandCounts()["setScheduleRecordConfig"]
	if writes != 1 {
		t.Errorf("schedule written %d times, want 1", writes)
	}
}

func TestSetScheduleAndVerify_WriteRejected(t *testing.T) {
	c, cam := newTestClient(t)
	cam.FailCommand("setScheduleRecordConfig", -4)

	result := c.SetScheduleAndVerify(context.Background(),
		mustSegments(t, "monday", "9:30", "14:00"), true, fastVerify())

	if result.Success || result.Attempts != 0 {
		t.Errorf("Success = %v, Attempts = %d", result.Success, result.Attempts)
	}
	if !cgi.IsDeviceRejected(result.Error) {
		t.Errorf("Error = %v, want device rejection", result.Error)
	}
}

func TestSetScheduleAndVerify_InvalidSegment(t *testing.T) {
	c, cam := newTestClient(t)

	result := c.SetScheduleAndVerify(context.Background(),
		[]schedule.Segment{{Day: schedule.Monday, Start: 10, End: 4}}, false, fastVerify())

	if !schedule.IsInvalidSegment(result.Error) {
		t.Errorf("Error = %v, want invalid segment", result.Error)
	}
	if n := len(cam.Commands()); n != 0 {
		t.Errorf("%d requests sent", n)
	}
}

func TestVerifyWeek_ReadFailureStops(t *testing.T) {
	c, cam := newTestClient(t)
	cam.FailCommand("getScheduleRecordConfig", -4)

	result := c.VerifyWeek(context.Background(), schedule.Week{}, fastVerify())

	if result.Success || !cgi.IsDeviceRejected(result.Error) {
		t.Errorf("result = %+v, want the read error", result)
	}
	if result.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", result.Attempts)
	}
	if got := joined(cam.Commands()); got != "getScheduleRecordConfig" {
		t.Errorf("commands = %s, want a single read", got)
	}
}

func TestVerifyWeek_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastVerify()
	opts.InitialDelay = time.Second
	result := c.VerifyWeek(ctx, schedule.Week{}, opts)
	if result.Success || result.Error != context.Canceled {
		t.Errorf("result = %+v, want context.Canceled", result)
	}
}

func TestFormatMismatches(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, "none"},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "2 mismatches: a; b"},
	}
	for _, tt := range tests {
		if got := formatMismatches(tt.in); got != tt.want {
			t.Errorf("formatMismatches(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
