package camera

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/foscam/internal/cgi"
	"github.com/muurk/foscam/internal/logging"
	"github.com/muurk/foscam/internal/schedule"
)

const (
	getScheduleCommand = "getScheduleRecordConfig"
	setScheduleCommand = "setScheduleRecordConfig"
)

// ScheduleConfig is the recording schedule as the camera reports it.
type ScheduleConfig struct {
	Week   schedule.Week
	Record RecordOptions
}

// Segments decodes the week into segments.
func (sc *ScheduleConfig) Segments() []schedule.Segment {
	return schedule.Decode(sc.Week)
}

// GetScheduleConfig reads the week and its recording settings.
func (c *Client) GetScheduleConfig(ctx context.Context) (*ScheduleConfig, error) {
	res, err := c.send(ctx, getScheduleCommand, cgi.NewParams())
	if err != nil {
		return nil, err
	}
	return parseScheduleConfig(res)
}

// GetSchedule reads the week and decodes it into segments, in day order
// then start time. An empty schedule gives an empty, non-nil slice.
func (c *Client) GetSchedule(ctx context.Context) ([]schedule.Segment, error) {
	sc, err := c.GetScheduleConfig(ctx)
	if err != nil {
		return nil, err
	}
	return sc.Segments(), nil
}

// GetWeek reads the raw day masks.
func (c *Client) GetWeek(ctx context.Context) (schedule.Week, error) {
	sc, err := c.GetScheduleConfig(ctx)
	if err != nil {
		return schedule.Week{}, err
	}
	return sc.Week, nil
}

// SetSchedule writes segs to the camera. With clearMissing every day
// starts empty; without it the current week is fetched first and segs are
// added to it. Segments are validated before any request is made.
func (c *Client) SetSchedule(ctx context.Context, segs []schedule.Segment, clearMissing bool) (*cgi.Result, error) {
	if errs := schedule.ValidateSegments(segs); len(errs) > 0 {
		return nil, errs[0]
	}

	var base schedule.Week
	if !clearMissing {
		current, err := c.GetWeek(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch current schedule: %w", err)
		}
		base = current
	}

	week, err := schedule.Encode(base, segs)
	if err != nil {
		return nil, err
	}
	return c.SetWeek(ctx, week)
}

// SetWeek writes week as-is together with the client's record options.
func (c *Client) SetWeek(ctx context.Context, week schedule.Week) (*cgi.Result, error) {
	if err := schedule.ValidateWeek(week); err != nil {
		return nil, err
	}

	opts := c.RecordOptions()
	params := weekParams(week).
		WithBool("isEnable", opts.ScheduleEnabled).
		WithInt("recordLevel", opts.RecordLevel).
		WithInt("spaceFullMode", opts.SpaceFullMode).
		WithBool("isEnableAudio", opts.EnableAudio)

	res, err := c.send(ctx, setScheduleCommand, params)
	if err != nil {
		return res, err
	}
	logging.Info("Recording schedule written",
		zap.String("host", c.cgi.Host()),
		zap.String("summary", schedule.Summary(week)),
	)
	return res, nil
}

func weekParams(week schedule.Week) cgi.Params {
	p := cgi.NewParams()
	for _, day := range schedule.AllWeekdays {
		p = p.WithUint(day.ParamName(), uint64(week.Day(day)))
	}
	return p
}

func parseScheduleConfig(res *cgi.Result) (*ScheduleConfig, error) {
	sc := &ScheduleConfig{}
	for _, day := range schedule.AllWeekdays {
		raw, ok := res.Get(day.ParamName())
		if !ok {
			return nil, cgi.NewParseError(res.Command, "missing "+day.ParamName(), nil)
		}
		mask, err := schedule.ParseDayBitmask(raw)
		if err != nil {
			return nil, cgi.NewParseError(res.Command, "bad "+day.ParamName(), err)
		}
		sc.Week[day] = mask
	}

	// The flags are informational; firmware that omits them still has a
	// usable week.
	if v, err := res.Bool("isEnable"); err == nil {
		sc.Record.ScheduleEnabled = v
	}
	if v, err := res.Int("recordLevel"); err == nil {
		sc.Record.RecordLevel = v
	}
	if v, err := res.Int("spaceFullMode"); err == nil {
		sc.Record.SpaceFullMode = v
	}
	if v, err := res.Bool("isEnableAudio"); err == nil {
		sc.Record.EnableAudio = v
	}
	return sc, nil
}
