package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/foscam/internal/camera"
	"github.com/muurk/foscam/internal/schedule"
	"github.com/muurk/foscam/internal/ui"
)

type segmentJSON struct {
	Day   schedule.Weekday  `json:"day"`
	Start schedule.TimeSlot `json:"start"`
	End   schedule.TimeSlot `json:"end"`
}

type scheduleJSON struct {
	Camera   string               `json:"camera"`
	Record   camera.RecordOptions `json:"record"`
	Days     map[string]string    `json:"days"`
	Segments []segmentJSON        `json:"segments"`
}

type scheduleWriteJSON struct {
	Camera     string        `json:"camera"`
	Verified   bool          `json:"verified"`
	Attempts   int           `json:"attempts,omitempty"`
	RolledBack bool          `json:"rolled_back,omitempty"`
	Segments   []segmentJSON `json:"segments"`
}

func toSegmentJSON(segs []schedule.Segment) []segmentJSON {
	out := make([]segmentJSON, 0, len(segs))
	for _, s := range segs {
		out = append(out, segmentJSON{Day: s.Day, Start: s.Start, End: s.End})
	}
	return out
}

func (a *app) scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show or change the weekly recording schedule",
		Long: `Show or change the camera's weekly recording schedule.

The camera records in half-hour blocks, so every start and end time
must fall on the hour or half hour. End times are exclusive: a window
"monday 9:30 14:00" records up to, but not including, 14:00.`,
	}
	cmd.AddCommand(a.scheduleShowCmd(), a.scheduleSetCmd(), a.scheduleClearCmd())
	return cmd
}

func (a *app) scheduleShowCmd() *cobra.Command {
	var listOnly bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the recording schedule",
		Args:  cobra.NoArgs,
		Example: `  # Grid and list
  foscam-ctl schedule show --profile porch

  # Machine-readable
  foscam-ctl schedule show --profile porch --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), "Read schedule", func(c *camera.Client, t *target) error {
				sc, err := c.GetScheduleConfig(cmd.Context())
				if err != nil {
					return a.fail("Read schedule", err)
				}

				if a.format == formatJSON {
					days := make(map[string]string, schedule.DaysPerWeek)
					for _, day := range schedule.AllWeekdays {
						days[day.String()] = sc.Week[day].String()
					}
					return a.writeJSON(scheduleJSON{
						Camera:   t.label(),
						Record:   sc.Record,
						Days:     days,
						Segments: toSegmentJSON(sc.Segments()),
					})
				}

				a.printer.PrintHeader("Recording schedule", "foscam-ctl schedule show", map[string]string{
					"Camera":       t.label(),
					"Record level": strconv.Itoa(sc.Record.RecordLevel),
					"Audio":        onOff(sc.Record.EnableAudio),
				})
				if listOnly {
					a.printer.Println(ui.RenderSegmentList(sc.Segments()))
				} else {
					a.printer.PrintSchedule(sc.Week)
				}
				if !sc.Record.ScheduleEnabled {
					a.printer.Newline()
					a.printer.PrintWarning("Scheduled recording is disabled", map[string]string{
						"Enable": "foscam-ctl schedule set ... (without --disable)",
					})
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&listOnly, "list", false, "Show only the list of recording windows")
	return cmd
}

func (a *app) scheduleSetCmd() *cobra.Command {
	var (
		keepExisting  bool
		noVerify      bool
		retries       int
		recordLevel   int
		spaceFullMode int
		noAudio       bool
		disable       bool
	)

	cmd := &cobra.Command{
		Use:   "set <day> <start> <end> [<day> <start> <end> ...]",
		Short: "Write recording windows",
		Long: `Write one or more recording windows, each given as day, start and end.

By default the windows replace the whole schedule. With --keep-existing
the current schedule is read first and the windows are added to it.

Unless --no-verify is given the schedule is read back after writing,
and if the camera does not hold what was written the previous schedule
is restored.`,
		Example: `  # Weekday office hours only
  foscam-ctl schedule set monday 9:30 14:00 tuesday 9:30 14:00 --profile porch

  # Add Friday evening to what is there
  foscam-ctl schedule set friday 18:00 23:30 --keep-existing --profile porch

  # Whole Sunday, without audio
  foscam-ctl schedule set sunday 0:00 24:00 --no-audio --profile porch`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%3 != 0 {
				return fmt.Errorf("expected groups of <day> <start> <end>, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			segs, err := schedule.ParseSegments(args)
			if err != nil {
				return err
			}
			if errs := schedule.ValidateSegments(segs); len(errs) > 0 {
				return errs[0]
			}

			return a.withClient(cmd.Context(), "Schedule update", func(c *camera.Client, t *target) error {
				opts := c.RecordOptions()
				flags := cmd.Flags()
				if flags.Changed("record-level") {
					opts.RecordLevel = recordLevel
				}
				if flags.Changed("space-full-mode") {
					opts.SpaceFullMode = spaceFullMode
				}
				if flags.Changed("no-audio") {
					opts.EnableAudio = !noAudio
				}
				if flags.Changed("disable") {
					opts.ScheduleEnabled = !disable
				}
				c.SetRecordOptions(opts)

				verify := t.verify
				if flags.Changed("no-verify") {
					verify = !noVerify
				}

				vopts := camera.DefaultVerificationOptions()
				vopts.MaxRetries = retries
				return a.writeSchedule(cmd.Context(), c, t, segs, !keepExisting, verify, vopts)
			})
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&keepExisting, "keep-existing", false, "Add to the current schedule instead of replacing it")
	flags.BoolVar(&noVerify, "no-verify", false, "Skip reading the schedule back after writing")
	flags.IntVar(&retries, "retries", 3, "Number of verification re-reads")
	flags.IntVar(&recordLevel, "record-level", 4, "Recording quality level sent with the schedule")
	flags.IntVar(&spaceFullMode, "space-full-mode", 0, "What the camera does when storage is full")
	flags.BoolVar(&noAudio, "no-audio", false, "Record without audio")
	flags.BoolVar(&disable, "disable", false, "Store the schedule but turn scheduled recording off")
	return cmd
}

// writeSchedule runs a schedule write through the step runner, with
// snapshot, verification and rollback when verify is set.
func (a *app) writeSchedule(ctx context.Context, c *camera.Client, t *target, segs []schedule.Segment, clearMissing, verify bool, vopts *camera.VerificationOptions) error {
	mode := "replace"
	if !clearMissing {
		mode = "add to existing"
	}

	if !verify {
		if a.format == formatJSON {
			if _, err := c.SetSchedule(ctx, segs, clearMissing); err != nil {
				return err
			}
			return a.writeJSON(scheduleWriteJSON{Camera: t.label(), Segments: toSegmentJSON(segs)})
		}

		runner := a.stepRunner("Schedule update", t, mode, []string{"Write schedule"})
		_, err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
			onStep(1, "", ui.StepRunning, "")
			res, err := c.SetSchedule(ctx, segs, clearMissing)
			if res != nil {
				runner.SetRawOutput(ui.NewRawFields(res.Command, res.Fields()))
			}
			if err != nil {
				onStep(1, "", ui.StepFailed, "")
				return nil, err
			}
			onStep(1, "", ui.StepComplete, "not verified")
			return map[string]string{"Windows": strconv.Itoa(len(segs))}, nil
		})
		if err != nil {
			return &reportedError{err: err}
		}
		return nil
	}

	rm := camera.NewRollbackManager(c)
	description := fmt.Sprintf("%d window(s), %s", len(segs), mode)

	if a.format == formatJSON {
		result := rm.SafeSetSchedule(ctx, segs, clearMissing, vopts, description)
		if !result.Success {
			return result.Error
		}
		return a.writeJSON(scheduleWriteJSON{
			Camera:   t.label(),
			Verified: true,
			Attempts: result.Update.Attempts,
			Segments: toSegmentJSON(segs),
		})
	}

	runner := a.stepRunner("Schedule update", t, mode, []string{
		"Save current schedule",
		"Write and verify",
		"Restore on failure",
	})
	var actual *schedule.Week
	_, err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
		onStep(1, "", ui.StepRunning, "")
		result := rm.SafeSetSchedule(ctx, segs, clearMissing, vopts, description)

		if result.Update == nil {
			// failed before writing
			onStep(1, "", ui.StepFailed, "")
			return nil, result.Error
		}
		onStep(1, "", ui.StepComplete, "")

		attempts := fmt.Sprintf("%d attempt(s)", result.Update.Attempts)
		if result.Success {
			actual = result.Update.Actual
			onStep(2, "", ui.StepComplete, attempts)
			onStep(3, "", ui.StepSkipped, "not needed")
			return map[string]string{
				"Windows":  strconv.Itoa(len(segs)),
				"Verified": attempts,
			}, nil
		}

		onStep(2, "", ui.StepFailed, attempts)
		if result.RollbackSucceeded {
			onStep(3, "", ui.StepComplete, "previous schedule restored")
		} else {
			onStep(3, "", ui.StepFailed, "")
		}
		return nil, result.Error
	})
	if err != nil {
		return &reportedError{err: err}
	}

	if actual != nil {
		a.printer.Newline()
		a.printer.PrintSchedule(*actual)
	}
	return nil
}

func (a *app) stepRunner(title string, t *target, mode string, steps []string) *ui.StepRunner {
	return ui.NewStepRunner(ui.StepRunnerConfig{
		Title:     title,
		Command:   "foscam-ctl schedule set",
		Params:    map[string]string{"Camera": t.label(), "Mode": mode},
		StepNames: steps,
		Verbose:   a.verbose,
		Troubleshooting: []string{
			"Check the camera's clock and time zone",
			"Confirm the account is an administrator",
			"Run with FOSCAM_LOG_LEVEL=debug to see each request",
		},
		Output: a.out,
		Width:  a.printer.Width(),
	})
}

func (a *app) scheduleClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every recording window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && a.format == formatJSON {
				return fmt.Errorf("--format json cannot prompt, pass --yes")
			}
			return a.withClient(cmd.Context(), "Clear schedule", func(c *camera.Client, t *target) error {
				if !yes && !ui.ConfirmScheduleClear(a.in, a.out, t.label()) {
					return nil
				}

				res, err := c.SetSchedule(cmd.Context(), nil, true)
				if err != nil {
					return a.fail("Clear schedule", err)
				}
				a.raw(res)
				return a.success("Schedule cleared", map[string]string{"Camera": t.label()},
					scheduleWriteJSON{Camera: t.label(), Segments: []segmentJSON{}})
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
