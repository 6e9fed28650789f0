package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/foscam/internal/schedule"
)

func TestRenderScheduleGrid(t *testing.T) {
	var week schedule.Week
	week[schedule.Monday] = schedule.SpanMask(19, 28) // 9:30-14:00

	out := RenderScheduleGrid(week, 80)

	wantRow := strings.Repeat(GridOffCell, 19) + strings.Repeat(GridOnCell, 9) + strings.Repeat(GridOffCell, 20)
	if !strings.Contains(out, "monday     "+wantRow) {
		t.Errorf("grid missing monday row %q:\n%s", wantRow, out)
	}
	if !strings.Contains(out, "sunday     "+strings.Repeat(GridOffCell, schedule.BlocksPerDay)) {
		t.Errorf("grid missing empty sunday row:\n%s", out)
	}
	if !strings.Contains(out, "0   2   4") {
		t.Errorf("grid missing hour ruler:\n%s", out)
	}
	if !strings.Contains(out, schedule.Summary(week)) {
		t.Errorf("grid missing summary:\n%s", out)
	}
}

func TestRenderScheduleGridNarrow(t *testing.T) {
	var week schedule.Week
	week[schedule.Friday] = schedule.FullDay

	out := RenderScheduleGrid(week, 10)
	if !strings.Contains(out, strings.Repeat(GridOnCell, schedule.BlocksPerDay)) {
		t.Errorf("narrow grid wrapped the friday row:\n%s", out)
	}
}

func TestRenderSegmentList(t *testing.T) {
	if got := RenderSegmentList(nil); !strings.Contains(got, "No recording scheduled") {
		t.Errorf("empty list = %q", got)
	}

	seg, err := schedule.ParseSegment("friday", "18:00", "23:30")
	if err != nil {
		t.Fatal(err)
	}
	got := RenderSegmentList([]schedule.Segment{seg})
	for _, want := range []string{"friday", "18:00 - 23:30", "5h30m"} {
		if !strings.Contains(got, want) {
			t.Errorf("segment list missing %q: %q", want, got)
		}
	}
}

func TestHeaderSortsParams(t *testing.T) {
	h := NewHeader("ir mode", "foscam-ctl ir mode", map[string]string{
		"Mode":   "schedule",
		"Camera": "192.168.0.100:88",
	}).SetWidth(80)

	out := h.Render()
	if !strings.Contains(out, "IR MODE") {
		t.Errorf("title not upper-cased:\n%s", out)
	}
	if strings.Index(out, "Camera:") > strings.Index(out, "Mode:") {
		t.Errorf("params not sorted:\n%s", out)
	}
}

func TestResultRender(t *testing.T) {
	ok := NewSuccessResult("Infrared on", nil).AddDetail("Mode", "manual").SetWidth(80).Render()
	if !strings.Contains(ok, "SUCCESS") || !strings.Contains(ok, "manual") {
		t.Errorf("success box:\n%s", ok)
	}

	fail := NewFailureResult("Pan", errors.New("access denied"), []string{"Check the user has PTZ rights"}).
		SetWidth(80).Render()
	for _, want := range []string{"FAILED", "access denied", "Troubleshooting:", "PTZ rights"} {
		if !strings.Contains(fail, want) {
			t.Errorf("failure box missing %q:\n%s", want, fail)
		}
	}

	warn := RenderWarning("Verification skipped", map[string]string{"Reason": "--no-verify"})
	if !strings.Contains(warn, "WARNING") {
		t.Errorf("warning box:\n%s", warn)
	}
}

func TestRawOutput(t *testing.T) {
	raw := NewRawFields("getScheduleRecordConfig", map[string]string{
		"schedule1":   "0",
		"result":      "0",
		"schedule0":   "267911168",
		"recordLevel": "4",
	})

	if got := strings.Join(raw.Lines, "|"); got != "recordLevel = 4|result = 0|schedule0 = 267911168|schedule1 = 0" {
		t.Errorf("lines = %s", got)
	}

	raw.FilterPrefix("schedule").SetMaxLines(1).SetWidth(80)
	out := raw.Render()
	if !strings.Contains(out, "schedule0 = 267911168") || strings.Contains(out, "schedule1") {
		t.Errorf("filtered box:\n%s", out)
	}
	if !strings.Contains(out, "1 more line(s)") || !strings.Contains(out, "getScheduleRecordConfig") {
		t.Errorf("box missing truncation note or title:\n%s", out)
	}
}

func TestProgressPercent(t *testing.T) {
	p := NewProgress("Writing schedule", 4).SetStepNames([]string{"a", "b", "c", "d"})

	p.StartStep(1, "")
	if p.Current != 1 || p.Percent != 0 {
		t.Errorf("after start: current %d percent %v", p.Current, p.Percent)
	}
	p.CompleteStep(1, "")
	p.SkipStep(2, "no-verify")
	p.FailStep(3, "")
	if p.Finished() != 2 || p.Percent != 0.5 {
		t.Errorf("finished %d percent %v, want 2 and 0.5", p.Finished(), p.Percent)
	}

	p.UpdateStep(9, StepComplete, "") // out of range
	out := p.Render()
	if !strings.Contains(out, StepMarkerSkipped) || !strings.Contains(out, "(no-verify)") {
		t.Errorf("render:\n%s", out)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"yes", true},
		{"\n", false},
		{"no\n", false},
		{"I AGREE\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := Confirm(strings.NewReader(tt.input), &out, "CLEAR", []string{"All windows removed"})
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "All windows removed") {
			t.Errorf("Confirm(%q) did not print the warnings", tt.input)
		}
		if !tt.want && !strings.Contains(out.String(), "cancelled") {
			t.Errorf("Confirm(%q) did not report cancellation", tt.input)
		}
	}
}

func TestStepRunner(t *testing.T) {
	var out bytes.Buffer
	runner := NewStepRunner(StepRunnerConfig{
		Title:     "Schedule Update",
		Command:   "foscam-ctl schedule set",
		Params:    map[string]string{"Camera": "porch"},
		StepNames: []string{"Snapshot", "Write", "Verify"},
		Verbose:   true,
		Output:    &out,
		Width:     80,
	})
	runner.SetRawOutput(NewRawFields("setScheduleRecordConfig", map[string]string{"result": "0"}))

	details, err := runner.Run(context.Background(), func(ctx context.Context, onStep StepCallback) (map[string]string, error) {
		for i := 1; i <= 3; i++ {
			onStep(i, "", StepRunning, "")
			onStep(i, "", StepComplete, "")
		}
		onStep(7, "ignored", StepComplete, "")
		return map[string]string{"Windows": "1"}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if details["Windows"] != "1" || details["Duration"] == "" {
		t.Errorf("details = %v", details)
	}
	if runner.Progress().Percent != 1 {
		t.Errorf("percent = %v", runner.Progress().Percent)
	}

	s := out.String()
	for _, want := range []string{"SCHEDULE UPDATE", "Snapshot", "Verify", "SUCCESS", "Camera Response", "result = 0"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestStepRunnerFailure(t *testing.T) {
	var out bytes.Buffer
	runner := NewStepRunner(StepRunnerConfig{
		Title:           "Pan",
		Command:         "foscam-ctl pan left",
		Troubleshooting: []string{"Check the camera is reachable"},
		Output:          &out,
		Width:           80,
	})

	boom := errors.New("connection refused")
	_, err := runner.Run(context.Background(), func(ctx context.Context, onStep StepCallback) (map[string]string, error) {
		onStep(1, "Move", StepRunning, "") // no steps configured
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
	if runner.Progress() != nil {
		t.Error("runner without step names has a progress tracker")
	}
	for _, want := range []string{"FAILED", "connection refused", "reachable"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrinter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out).SetWidth(80)

	var week schedule.Week
	week[schedule.Saturday] = schedule.SpanMask(0, 4)
	p.PrintSchedule(week)
	p.PrintPleaseWait("Panning left", "2s")

	s := out.String()
	for _, want := range []string{"saturday", "0:00 -  2:00", "Panning left", "(2s)"} {
		if !strings.Contains(s, want) {
			t.Errorf("printer output missing %q:\n%s", want, s)
		}
	}
	if p.Width() != 80 || p.Writer() != &out {
		t.Error("printer accessors")
	}
}
