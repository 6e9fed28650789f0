package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/foscam/internal/camera"
	"github.com/muurk/foscam/internal/timer"
)

// stopTimeout bounds the stop sent after an interrupted timed move.
const stopTimeout = 5 * time.Second

type moveStatus struct {
	Camera    string `json:"camera"`
	Axis      string `json:"axis"`
	Direction string `json:"direction"`
	Duration  string `json:"duration,omitempty"`
	Stopped   bool   `json:"stopped"`
}

// moveFunc is Client.Pan or Client.Zoom.
type moveFunc func(c *camera.Client, ctx context.Context, direction string, d time.Duration) (*timer.Handle, error)

func (a *app) panCmd() *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "pan <direction>",
		Short: "Move the camera head",
		Long: `Start moving the pan/tilt head in a direction.

With --duration the camera is stopped again after that long and the
command waits for the stop. Without it the head keeps moving until
'foscam-ctl stop' or 'foscam-ctl pan stop'.

Directions: ` + strings.Join(camera.PanDirections(), ", "),
		Example: `  # Nudge left for two seconds
  foscam-ctl pan left --duration 2s --profile porch

  # Start tilting up and leave it moving
  foscam-ctl pan up --profile porch`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: camera.PanDirections(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMove(cmd.Context(), "pan", camera.PanDirections(), (*camera.Client).Pan, (*camera.Client).StopPan, args[0], duration)
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "Stop after this long (0 = keep moving)")
	return cmd
}

func (a *app) zoomCmd() *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "zoom <in|out|stop>",
		Short: "Zoom the camera lens",
		Long: `Start zooming in or out, or stop zooming.

With --duration the zoom is stopped again after that long and the
command waits for the stop.`,
		Example: `  # Zoom in for one second
  foscam-ctl zoom in --duration 1s --profile porch`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: camera.ZoomDirections(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runMove(cmd.Context(), "zoom", camera.ZoomDirections(), (*camera.Client).Zoom, (*camera.Client).StopZoom, args[0], duration)
		},
	}
	cmd.Flags().DurationVarP(&duration, "duration", "d", 0, "Stop after this long (0 = keep zooming)")
	return cmd
}

func (a *app) stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop all pan, tilt and zoom movement",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withClient(cmd.Context(), "Stop", func(c *camera.Client, t *target) error {
				err := errors.Join(c.StopPan(cmd.Context()), c.StopZoom(cmd.Context()))
				if err != nil {
					return a.fail("Stop", err)
				}
				return a.success("Stopped", map[string]string{"Camera": t.label()},
					moveStatus{Camera: t.label(), Axis: "all", Direction: "stop", Stopped: true})
			})
		},
	}
}

// runMove validates the direction before connecting, starts the move and,
// for timed moves, waits for the deferred stop and fails if the camera
// rejected it. An interrupt cancels the deferred stop and stops the camera
// immediately instead.
func (a *app) runMove(ctx context.Context, axis string, directions []string, move moveFunc, stop func(*camera.Client, context.Context) error, arg string, d time.Duration) error {
	direction, ok := matchName(directions, arg)
	if !ok {
		return fmt.Errorf("%w: %s %q (want one of %s)", camera.ErrInvalidDirection, axis, arg, strings.Join(directions, ", "))
	}
	title := strings.ToUpper(axis[:1]) + axis[1:] + " " + direction

	return a.withClient(ctx, title, func(c *camera.Client, t *target) error {
		handle, err := move(c, ctx, direction, d)
		if err != nil {
			return a.fail(title, err)
		}

		status := moveStatus{Camera: t.label(), Axis: axis, Direction: direction, Stopped: direction == "stop"}
		details := map[string]string{"Camera": t.label(), "Direction": direction}

		if handle != nil {
			status.Duration = d.String()
			details["Duration"] = d.String()
			if a.format != formatJSON {
				a.printer.PrintPleaseWait(title, d.String())
			}

			select {
			case <-handle.Done():
			case <-ctx.Done():
				handle.Cancel()
				stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
				defer cancel()
				if err := stop(c, stopCtx); err != nil {
					return a.fail(title+" interrupted", err)
				}
				return a.fail(title+" interrupted", ctx.Err())
			}
			if err := handle.Err(); err != nil {
				return a.fail(title+": camera did not stop", err)
			}
			status.Stopped = handle.Fired()
		} else if direction != "stop" {
			details["Duration"] = "until stopped"
		}

		return a.success(title, details, status)
	})
}
