package camera

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/foscam/internal/cgi"
	"github.com/muurk/foscam/internal/logging"
	"github.com/muurk/foscam/internal/timer"
)

// ErrInvalidDirection is returned for a pan or zoom direction the camera
// has no command for. No request is sent.
var ErrInvalidDirection = errors.New("invalid direction")

// DirectionError names the rejected direction and the axis it was for.
type DirectionError struct {
	Axis      string
	Direction string
}

func (e *DirectionError) Error() string {
	return fmt.Sprintf("invalid %s direction %q", e.Axis, e.Direction)
}

func (e *DirectionError) Unwrap() error {
	return ErrInvalidDirection
}

const (
	panStop  = "ptzStopRun"
	zoomStop = "zoomStop"
)

var panCommands = map[string]string{
	"up":        "ptzMoveUp",
	"down":      "ptzMoveDown",
	"left":      "ptzMoveLeft",
	"right":     "ptzMoveRight",
	"upright":   "ptzMoveTopRight",
	"upleft":    "ptzMoveTopLeft",
	"downright": "ptzMoveDownRight",
	"downleft":  "ptzMoveDownLeft",
	"stop":      panStop,
}

var zoomCommands = map[string]string{
	"in":   "zoomIn",
	"out":  "zoomOut",
	"stop": zoomStop,
}

// axis groups a command table with the command that halts it.
type axis struct {
	name     string
	commands map[string]string
	stop     string
}

var (
	panAxis  = axis{name: "pan", commands: panCommands, stop: panStop}
	zoomAxis = axis{name: "zoom", commands: zoomCommands, stop: zoomStop}
)

func (a axis) lookup(direction string) (string, error) {
	cmd, ok := a.commands[strings.ToLower(strings.TrimSpace(direction))]
	if !ok {
		return "", &DirectionError{Axis: a.name, Direction: direction}
	}
	return cmd, nil
}

func (a axis) directions() []string {
	names := make([]string, 0, len(a.commands))
	for name := range a.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PanDirections returns the accepted pan directions, sorted.
func PanDirections() []string { return panAxis.directions() }

// ZoomDirections returns the accepted zoom directions, sorted.
func ZoomDirections() []string { return zoomAxis.directions() }

// Pan starts moving in direction. With d > 0 a stop is scheduled after d
// and its handle returned; cancel it to keep moving. Once the handle is
// done, its Err reports whether the camera accepted the stop. With d <= 0 the
// camera moves until StopPan or the end of its range, and the handle is nil.
func (c *Client) Pan(ctx context.Context, direction string, d time.Duration) (*timer.Handle, error) {
	return c.move(ctx, panAxis, direction, d)
}

// Zoom is Pan for the zoom axis: "in", "out" or "stop".
func (c *Client) Zoom(ctx context.Context, direction string, d time.Duration) (*timer.Handle, error) {
	return c.move(ctx, zoomAxis, direction, d)
}

// StopPan halts pan and tilt.
func (c *Client) StopPan(ctx context.Context) error {
	_, err := c.send(ctx, panStop, cgi.NewParams())
	return err
}

// StopZoom halts zoom.
func (c *Client) StopZoom(ctx context.Context) error {
	_, err := c.send(ctx, zoomStop, cgi.NewParams())
	return err
}

func (c *Client) move(ctx context.Context, a axis, direction string, d time.Duration) (*timer.Handle, error) {
	command, err := a.lookup(direction)
	if err != nil {
		return nil, err
	}
	if _, err := c.send(ctx, command, cgi.NewParams()); err != nil {
		return nil, err
	}
	if d <= 0 || command == a.stop {
		return nil, nil
	}

	stop := a.stop
	h := c.scheduler.Flush(stop, d, func(ctx context.Context) error {
		_, err := c.send(ctx, stop, cgi.NewParams())
		if err != nil {
			logging.Error("Deferred stop failed",
				zap.String("command", stop),
				zap.String("after", command),
				zap.String("host", c.cgi.Host()),
				zap.Error(err),
			)
			return fmt.Errorf("deferred %s failed: %w", stop, err)
		}
		return nil
	})
	logging.Debug("Deferred stop scheduled",
		zap.String("command", stop),
		zap.Duration("after", d),
	)
	return h, nil
}
