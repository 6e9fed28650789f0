package main

import (
	"testing"

	"github.com/muurk/foscam/internal/schedule"
)

func TestParseWindows(t *testing.T) {
	week, err := parseWindows([]string{"monday,9:30,14:00", "monday,13:00,15:00"})
	if err != nil {
		t.Fatalf("parseWindows() error = %v", err)
	}
	if got, want := week[schedule.Monday], schedule.SpanMask(19, 30); got != want {
		t.Errorf("monday = %d, want %d", got, want)
	}

	empty, err := parseWindows(nil)
	if err != nil || !empty.IsZero() {
		t.Errorf("parseWindows(nil) = %v, %v", empty, err)
	}

	for _, bad := range []string{"monday,9:30", "monday,9:10,10:00", "someday,1:00,2:00"} {
		if _, err := parseWindows([]string{bad}); err == nil {
			t.Errorf("parseWindows(%q) should fail", bad)
		}
	}
}

func TestRootCmdRejectsBadIRMode(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--ir-mode", "bright", "--port", "0"})
	if err := cmd.Execute(); err == nil {
		t.Error("Execute() with --ir-mode bright should fail")
	}
}
