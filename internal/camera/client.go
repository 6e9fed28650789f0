package camera

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/foscam/internal/cgi"
	"github.com/muurk/foscam/internal/logging"
	"github.com/muurk/foscam/internal/timer"
)

// RecordOptions are the auxiliary settings sent with every schedule write.
// They belong to the client, not to a single call.
type RecordOptions struct {
	// ScheduleEnabled turns scheduled recording on (isEnable)
	ScheduleEnabled bool `yaml:"schedule_enabled" json:"schedule_enabled"`

	// RecordLevel is the device recording quality level
	RecordLevel int `yaml:"record_level" json:"record_level"`

	// SpaceFullMode selects what happens when storage fills up
	SpaceFullMode int `yaml:"space_full_mode" json:"space_full_mode"`

	// EnableAudio records audio alongside video (isEnableAudio)
	EnableAudio bool `yaml:"enable_audio" json:"enable_audio"`
}

// DefaultRecordOptions returns the settings a new client starts with.
func DefaultRecordOptions() RecordOptions {
	return RecordOptions{
		ScheduleEnabled: true,
		RecordLevel:     4,
		SpaceFullMode:   0,
		EnableAudio:     true,
	}
}

// Config holds everything needed to build a Client. Zero fields take
// their defaults.
type Config struct {
	// BaseURL is scheme, host and port, e.g. "http://192.168.0.100:88"
	BaseURL string

	// Username defaults to "admin"
	Username string

	Password string

	// Timeout bounds each HTTP request (default cgi.DefaultTimeout)
	Timeout time.Duration

	// RateLimit is the minimum spacing between commands (0 = none)
	RateLimit time.Duration

	// Record overrides DefaultRecordOptions when non-nil
	Record *RecordOptions

	// HTTPClient replaces the default HTTP client; Timeout is then ignored
	HTTPClient *http.Client

	// Scheduler runs deferred stops. When nil the client starts its own
	// and stops it on Close; a shared scheduler is left running.
	Scheduler *timer.Scheduler
}

// Client controls one camera. It is safe for concurrent use; deferred
// stops run on the scheduler while the caller keeps issuing commands.
type Client struct {
	cgi       *cgi.Client
	scheduler *timer.Scheduler
	ownsSched bool

	mu        sync.Mutex
	defaultIR IRMode
	record    RecordOptions
	closed    bool
}

// NewClient connects to the camera at baseURL with default settings and
// reads its IR mode to seed the remembered default.
func NewClient(ctx context.Context, baseURL, username, password string) (*Client, error) {
	return NewClientWithConfig(ctx, Config{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
	})
}

// NewClientWithConfig is NewClient with explicit configuration.
func NewClientWithConfig(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("camera URL is required")
	}

	transport := cgi.NewClient(cfg.BaseURL, cfg.Username, cfg.Password)
	if cfg.HTTPClient != nil {
		transport.HTTPClient = cfg.HTTPClient
	} else if cfg.Timeout > 0 {
		transport.SetTimeout(cfg.Timeout)
	}
	if cfg.RateLimit > 0 {
		transport.SetRateLimit(cfg.RateLimit)
	}

	record := DefaultRecordOptions()
	if cfg.Record != nil {
		record = *cfg.Record
	}

	c := &Client{
		cgi:       transport,
		scheduler: cfg.Scheduler,
		record:    record,
	}

	mode, err := c.GetIRMode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read IR mode: %w", err)
	}
	c.defaultIR = mode

	if c.scheduler == nil {
		c.scheduler = timer.NewScheduler()
		c.ownsSched = true
	}

	logging.Debug("Camera client ready",
		zap.String("host", transport.Host()),
		zap.String("ir_default", mode.String()),
	)
	return c, nil
}

// Close sends pending deferred stops at once, rather than leaving the
// camera moving, when the client owns its scheduler. Calling Close twice
// is harmless.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if c.ownsSched {
		return c.scheduler.Close()
	}
	return nil
}

// Transport exposes the underlying CGI client for commands the facade
// does not wrap.
func (c *Client) Transport() *cgi.Client {
	return c.cgi
}

// RecordOptions returns the settings sent with the next schedule write.
func (c *Client) RecordOptions() RecordOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

// SetRecordOptions replaces the settings sent with later schedule writes.
func (c *Client) SetRecordOptions(opts RecordOptions) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record = opts
}

func (c *Client) send(ctx context.Context, command string, params cgi.Params) (*cgi.Result, error) {
	return c.cgi.Do(ctx, command, params)
}
