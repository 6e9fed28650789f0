package cgi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/muurk/foscam/internal/logging"
)

const (
	// Path is the camera's single control endpoint
	Path = "/cgi-bin/CGIProxy.fcgi"

	// DefaultUsername is the factory administrator account
	DefaultUsername = "admin"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxResponseSize bounds how much of a response body is read
	maxResponseSize = 1 << 20
)

// Client sends authenticated commands to a camera's CGI endpoint.
//
// Every command is attempted exactly once. A Client is safe for concurrent
// use once configured; call the Set* methods before sharing it.
type Client struct {
	// BaseURL is the camera's scheme, host and port (e.g., "http://192.168.1.20:88")
	BaseURL string

	// Username is sent as the usr parameter
	Username string

	// Password is sent as the pwd parameter
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// limiter spaces out commands when set; nil means no limit
	limiter *rate.Limiter
}

// NewClient creates a client for the camera at baseURL.
// baseURL: scheme, host and port (e.g., "http://192.168.1.20:88")
func NewClient(baseURL, username, password string) *Client {
	if username == "" {
		username = DefaultUsername
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Username:   username,
		Password:   password,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout. Zero disables the client
// timeout; the context passed to Do still applies.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetAuth sets the credentials sent with every command
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// SetRateLimit allows at most one command per interval. Some firmware
// drops commands that arrive in quick succession. Zero removes the limit.
func (c *Client) SetRateLimit(interval time.Duration) {
	if interval <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Every(interval), 1)
}

// Host returns the host part of BaseURL, used in troubleshooting hints.
func (c *Client) Host() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// RequestURL returns the full URL for a command, including credentials.
func (c *Client) RequestURL(command string, params Params) (*url.URL, error) {
	if command == "" {
		return nil, fmt.Errorf("cgi: empty command")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("cgi: invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("cgi: base URL %q must include scheme and host", c.BaseURL)
	}

	u.Path = strings.TrimRight(u.Path, "/") + Path

	q := params.Values()
	q.Set("cmd", command)
	q.Set("usr", c.Username)
	q.Set("pwd", c.Password)
	u.RawQuery = q.Encode()
	return u, nil
}

// Do sends command with params and decodes the CGI_Result.
//
// On a non-zero device result code Do returns the decoded result together
// with an *Error of type ErrTypeDeviceRejected, so callers can still inspect
// the raw response.
func (c *Client) Do(ctx context.Context, command string, params Params) (*Result, error) {
	u, err := c.RequestURL(command, params)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, NewNetworkError(command, "cancelled while waiting for rate limit", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, NewNetworkError(command, "failed to create request", err)
	}

	logging.LogCGIRequest(command, u)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		cgiErr := NewNetworkError(command, "request failed", redactURLError(err, u))
		cgiErr.Host = c.Host()
		return nil, cgiErr
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, NewAuthError(command, "authentication failed (check credentials)")
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewHTTPError(command, resp.StatusCode,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		cgiErr := NewNetworkError(command, "failed to read response body", err)
		cgiErr.Host = c.Host()
		return nil, cgiErr
	}

	result, err := ParseResult(command, body)
	if err != nil {
		logging.LogRawBytes("unparseable CGI response", body)
		return nil, err
	}

	logging.LogCGIResponse(command, resp.StatusCode, int(result.Code()), time.Since(start))

	if !result.OK() {
		return result, NewRejectedError(command, result.Code())
	}
	return result, nil
}

// redactURLError replaces the request URL carried by a *url.Error with its
// redacted form. The query holds the password in clear.
func redactURLError(err error, u *url.URL) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	clean := *urlErr
	clean.URL = logging.RedactURL(u)
	return &clean
}
