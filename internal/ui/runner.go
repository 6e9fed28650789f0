package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// StepRunnerConfig holds configuration for a multi-step camera command
type StepRunnerConfig struct {
	Title           string            // Command title (e.g., "Schedule Update")
	Command         string            // Full command (e.g., "foscam-ctl schedule set")
	Params          map[string]string // Parameters to display in header
	StepNames       []string          // Names for each step, in order
	Verbose         bool              // Whether to show the raw camera response
	Troubleshooting []string          // Tips shown on failure
	Output          io.Writer         // Output writer (default: os.Stdout)
	Width           int               // Render width (default: terminal width)
}

// StepOperation performs the work of a StepRunner, reporting progress
// through onStep. The returned details are shown in the success box.
type StepOperation func(ctx context.Context, onStep StepCallback) (map[string]string, error)

// StepRunner drives the header, step list and result box for a camera
// command that takes several requests.
type StepRunner struct {
	config   StepRunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	raw      *RawOutput
	width    int
}

// NewStepRunner creates a runner for the given command.
func NewStepRunner(config StepRunnerConfig) *StepRunner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := config.Width
	if width == 0 {
		width = GetTerminalWidth()
	}

	header := NewHeader(config.Title, config.Command, config.Params).SetWidth(width)

	var prog *Progress
	if len(config.StepNames) > 0 {
		prog = NewProgress("", len(config.StepNames)).SetWidth(width).SetStepNames(config.StepNames)
	}

	return &StepRunner{
		config:   config,
		header:   header,
		progress: prog,
		output:   config.Output,
		width:    width,
	}
}

// SetRawOutput stores the camera response shown in verbose mode.
func (r *StepRunner) SetRawOutput(raw *RawOutput) {
	r.raw = raw
}

// Progress returns the runner's step tracker, or nil when no steps were named.
func (r *StepRunner) Progress() *Progress {
	return r.progress
}

// Run prints the header, executes op and prints the outcome. The error
// from op is returned unchanged.
func (r *StepRunner) Run(ctx context.Context, op StepOperation) (map[string]string, error) {
	start := time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := op(ctx, r.stepCallback())
	duration := time.Since(start)

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		result := NewFailureResult(r.config.Title+" failed", err, r.config.Troubleshooting).SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, result.Render())
	} else {
		if details == nil {
			details = make(map[string]string)
		}
		details["Duration"] = duration.Round(time.Millisecond).String()
		result := NewSuccessResult(r.config.Title+" complete", details).SetWidth(r.width)
		_, _ = fmt.Fprintln(r.output, result.Render())
	}

	if r.config.Verbose && r.raw != nil {
		_, _ = fmt.Fprintln(r.output)
		_, _ = fmt.Fprintln(r.output, r.raw.SetWidth(r.width).Render())
	}

	return details, err
}

func (r *StepRunner) stepCallback() StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}
		if name != "" {
			r.progress.Steps[stepNumber-1].Name = name
		}
		r.progress.UpdateStep(stepNumber, status, message)

		line := r.progress.renderStepLine(r.progress.Steps[stepNumber-1])
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, line)
		case StepRunning:
			// overwritten when the step finishes
			_, _ = fmt.Fprint(r.output, line+"\r")
		}
	}
}
