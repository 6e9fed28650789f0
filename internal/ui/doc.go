// Package ui renders terminal output for the foscam commands.
//
// Output is built from a few components styled with lipgloss:
//
//   - Header: command title, command path and parameters
//   - Progress: step list with a bubbles progress bar
//   - Result: success, failure or warning box
//   - RawOutput: the fields of a camera response (verbose mode)
//   - RenderScheduleGrid: the weekly recording schedule
//
// StepRunner ties these together for commands that issue several
// requests, such as a verified schedule write:
//
//	runner := ui.NewStepRunner(ui.StepRunnerConfig{
//	    Title:     "Schedule Update",
//	    Command:   "foscam-ctl schedule set",
//	    StepNames: []string{"Snapshot", "Write", "Verify"},
//	})
//	_, err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    ...
//	})
//
// Map-valued details and parameters are always rendered sorted by key.
package ui
