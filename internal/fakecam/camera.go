package fakecam

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/muurk/foscam/internal/schedule"
)

// Path is the endpoint the fake answers on; anything else is 404.
const Path = "/cgi-bin/CGIProxy.fcgi"

// Result codes returned in <result>.
const (
	resultOK             = 0
	resultBadRequest     = -1
	resultBadCredentials = -2
)

// Request is one command received by the camera.
type Request struct {
	Command string
	Params  url.Values
	At      time.Time
}

// Camera is an in-memory camera speaking the CGI protocol. It keeps IR,
// motion and schedule state so that writes are visible to later reads.
type Camera struct {
	mu sync.Mutex

	username string
	password string

	irMode int
	irLED  bool
	motion string
	zoom   string

	week          schedule.Week
	isEnable      bool
	recordLevel   int
	spaceFullMode int
	isEnableAudio bool

	// ignoreScheduleWrites accepts setScheduleRecordConfig without applying it
	ignoreScheduleWrites bool

	failures    map[string]int
	delays      map[string]time.Duration
	requests    []Request
	maxRequests int
	notify      chan struct{}

	server *httptest.Server
}

// Option configures a Camera.
type Option func(*Camera)

// WithCredentials sets the accepted username and password.
func WithCredentials(username, password string) Option {
	return func(c *Camera) {
		c.username = username
		c.password = password
	}
}

// WithIRMode sets the initial IR mode (0 auto, 1 manual, 2 schedule).
func WithIRMode(mode int) Option {
	return func(c *Camera) { c.irMode = mode }
}

// WithWeek sets the initial recording schedule.
func WithWeek(week schedule.Week) Option {
	return func(c *Camera) { c.week = week }
}

// WithMaxRequests bounds the request log to the n most recent requests.
// Zero keeps everything.
func WithMaxRequests(n int) Option {
	return func(c *Camera) { c.maxRequests = n }
}

// NewCamera returns a camera with factory state: admin with an empty
// password, IR auto, nothing scheduled. It is not listening; mount it as
// an http.Handler.
func NewCamera(opts ...Option) *Camera {
	c := &Camera{
		username:      "admin",
		isEnable:      false,
		recordLevel:   4,
		isEnableAudio: true,
		motion:        "stopped",
		zoom:          "stopped",
		failures:      make(map[string]int),
		delays:        make(map[string]time.Duration),
		notify:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New starts a camera on an httptest server. Close it when done.
func New(opts ...Option) *Camera {
	c := NewCamera(opts...)
	c.server = httptest.NewServer(c)
	return c
}

// URL returns the base URL of a camera started with New.
func (c *Camera) URL() string {
	if c.server == nil {
		return ""
	}
	return c.server.URL
}

// Close stops the httptest server.
func (c *Camera) Close() {
	if c.server != nil {
		c.server.Close()
	}
}

// FailCommand makes every following call of command answer with code.
// A code of 0 clears the failure.
func (c *Camera) FailCommand(command string, code int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if code == 0 {
		delete(c.failures, command)
		return
	}
	c.failures[command] = code
}

// DelayCommand makes command wait d before answering.
func (c *Camera) DelayCommand(command string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delays[command] = d
}

// IgnoreScheduleWrites makes the camera report success for schedule
// writes without storing them, as some firmware does when recording
// storage is missing.
func (c *Camera) IgnoreScheduleWrites(ignore bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ignoreScheduleWrites = ignore
}

// Requests returns a copy of every request received so far.
func (c *Camera) Requests() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Request, len(c.requests))
	copy(out, c.requests)
	return out
}

// Commands returns the command names received so far, in order.
func (c *Camera) Commands() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.requests))
	for i, r := range c.requests {
		out[i] = r.Command
	}
	return out
}

// ResetRequests forgets the request log.
func (c *Camera) ResetRequests() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = nil
}

// WaitForCommand blocks until command has been received at least n times
// or timeout elapses, and reports which happened.
func (c *Camera) WaitForCommand(command string, n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		c.mu.Lock()
		count := 0
		for _, r := range c.requests {
			if r.Command == command {
				count++
			}
		}
		notify := c.notify
		c.mu.Unlock()

		if count >= n {
			return true
		}
		select {
		case <-notify:
		case <-deadline:
			return false
		}
	}
}

// IRMode returns the current IR mode.
func (c *Camera) IRMode() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.irMode
}

// IRLEDOn reports whether the IR LEDs are lit.
func (c *Camera) IRLEDOn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.irLED
}

// Motion returns the last pan command, or "stopped".
func (c *Camera) Motion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.motion
}

// ZoomState returns the last zoom command, or "stopped".
func (c *Camera) ZoomState() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// Week returns the stored schedule.
func (c *Camera) Week() schedule.Week {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.week
}

// SetWeek replaces the stored schedule.
func (c *Camera) SetWeek(week schedule.Week) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.week = week
}

// RecordFlags returns the auxiliary schedule settings last written.
func (c *Camera) RecordFlags() (isEnable bool, recordLevel, spaceFullMode int, isEnableAudio bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isEnable, c.recordLevel, c.spaceFullMode, c.isEnableAudio
}

// ServeHTTP implements http.Handler.
func (c *Camera) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != Path {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	command := q.Get("cmd")

	c.mu.Lock()
	c.requests = append(c.requests, Request{Command: command, Params: q, At: time.Now()})
	if c.maxRequests > 0 && len(c.requests) > c.maxRequests {
		c.requests = append(c.requests[:0], c.requests[len(c.requests)-c.maxRequests:]...)
	}
	close(c.notify)
	c.notify = make(chan struct{})
	delay := c.delays[command]
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	fields := c.handle(command, q)
	writeResult(w, fields)
}

type field struct {
	name  string
	value string
}

func (c *Camera) handle(command string, q url.Values) []field {
	c.mu.Lock()
	defer c.mu.Unlock()

	if q.Get("usr") != c.username || q.Get("pwd") != c.password {
		return result(resultBadCredentials)
	}
	if code, ok := c.failures[command]; ok {
		return result(code)
	}

	switch command {
	case "getInfraLedConfig":
		return append(result(resultOK), field{"mode", strconv.Itoa(c.irMode)})

	case "setInfraLedConfig":
		mode, err := strconv.Atoi(q.Get("mode"))
		if err != nil || mode < 0 || mode > 2 {
			return result(resultBadRequest)
		}
		c.irMode = mode
		return result(resultOK)

	case "openInfraLed":
		c.irLED = true
		return result(resultOK)

	case "closeInfraLed":
		c.irLED = false
		return result(resultOK)

	case "ptzMoveUp", "ptzMoveDown", "ptzMoveLeft", "ptzMoveRight",
		"ptzMoveTopRight", "ptzMoveTopLeft", "ptzMoveDownRight", "ptzMoveDownLeft":
		c.motion = command
		return result(resultOK)

	case "ptzStopRun":
		c.motion = "stopped"
		return result(resultOK)

	case "zoomIn", "zoomOut":
		c.zoom = command
		return result(resultOK)

	case "zoomStop":
		c.zoom = "stopped"
		return result(resultOK)

	case "getScheduleRecordConfig":
		fields := append(result(resultOK),
			field{"isEnable", boolText(c.isEnable)},
			field{"recordLevel", strconv.Itoa(c.recordLevel)},
			field{"spaceFullMode", strconv.Itoa(c.spaceFullMode)},
			field{"isEnableAudio", boolText(c.isEnableAudio)},
		)
		for _, day := range schedule.AllWeekdays {
			fields = append(fields, field{day.ParamName(), c.week[day].String()})
		}
		return fields

	case "setScheduleRecordConfig":
		return c.setSchedule(q)

	default:
		return result(resultBadRequest)
	}
}

func (c *Camera) setSchedule(q url.Values) []field {
	var week schedule.Week
	for _, day := range schedule.AllWeekdays {
		mask, err := schedule.ParseDayBitmask(q.Get(day.ParamName()))
		if err != nil {
			return result(resultBadRequest)
		}
		week[day] = mask
	}

	ints := map[string]int{}
	for _, name := range []string{"isEnable", "recordLevel", "spaceFullMode", "isEnableAudio"} {
		v, err := strconv.Atoi(q.Get(name))
		if err != nil {
			return result(resultBadRequest)
		}
		ints[name] = v
	}

	if c.ignoreScheduleWrites {
		return result(resultOK)
	}
	c.week = week
	c.isEnable = ints["isEnable"] != 0
	c.recordLevel = ints["recordLevel"]
	c.spaceFullMode = ints["spaceFullMode"]
	c.isEnableAudio = ints["isEnableAudio"] != 0
	return result(resultOK)
}

func result(code int) []field {
	return []field{{"result", strconv.Itoa(code)}}
}

func boolText(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func writeResult(w http.ResponseWriter, fields []field) {
	var b strings.Builder
	b.WriteString("<CGI_Result>\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "    <%s>%s</%s>\n", f.name, f.value, f.name)
	}
	b.WriteString("</CGI_Result>\n")

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(b.String()))
}

// CommandCounts returns how many times each command was received.
func (c *Camera) CommandCounts() map[string]int {
	counts := map[string]int{}
	for _, cmd := range c.Commands() {
		counts[cmd]++
	}
	return counts
}

// SortedCommands returns the distinct commands received, sorted.
func (c *Camera) SortedCommands() []string {
	counts := c.CommandCounts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
