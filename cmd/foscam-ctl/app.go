package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/foscam/internal/camera"
	"github.com/muurk/foscam/internal/cgi"
	"github.com/muurk/foscam/internal/config"
	"github.com/muurk/foscam/internal/logging"
	"github.com/muurk/foscam/internal/ui"
	"github.com/muurk/foscam/internal/version"
)

// PasswordEnvVar supplies the camera password when --password is not given.
const PasswordEnvVar = "FOSCAM_PASSWORD"

// logLevelFallback applies when FOSCAM_LOG_LEVEL is unset, so a failed
// deferred stop still reaches stderr.
const logLevelFallback = "warn"

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
)

// reportedError marks an error whose result box has already been printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// app holds the persistent flags and the I/O every command shares.
type app struct {
	in      io.Reader
	out     io.Writer
	printer *ui.Printer

	url      string
	user     string
	password string
	profile  string
	timeout  time.Duration
	format   string
	insecure bool
	verbose  bool
}

// target is the camera a command talks to, after profile resolution.
type target struct {
	name     string // profile name, empty for --url
	url      string
	username string
	timeout  time.Duration
	record   *camera.RecordOptions
	irMode   *camera.IRMode
	verify   bool

	registry *config.Registry
	path     string
}

// label names the camera in headers: the profile, or the URL host.
func (t *target) label() string {
	if t.name != "" {
		return t.name
	}
	if u, err := url.Parse(t.url); err == nil && u.Host != "" {
		return u.Host
	}
	return t.url
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out, printer: ui.NewPrinter(out)}

	root := &cobra.Command{
		Use:   "foscam-ctl",
		Short: "Foscam Camera Control Utility",
		Long: `Control Foscam IP cameras over their CGI interface.

Switch the infrared LEDs, pan, tilt and zoom, and manage the weekly
recording schedule. Name a camera once with 'foscam-ctl profile save'
and address it with --profile afterwards.

The password is never stored. It is read from --password, the
FOSCAM_PASSWORD environment variable or an interactive prompt.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logging.InitializeWithFallback(logLevelFallback); err != nil {
				return err
			}
			switch a.format {
			case formatText, formatJSON:
				return nil
			default:
				return fmt.Errorf("unknown --format %q (want text or json)", a.format)
			}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.url, "url", "", "Camera base URL, e.g. http://192.168.0.100:88")
	flags.StringVarP(&a.user, "user", "u", "", "Camera username (default from profile, else admin)")
	flags.StringVarP(&a.password, "password", "p", "", "Camera password (or set "+PasswordEnvVar+")")
	flags.StringVar(&a.profile, "profile", "", "Saved camera profile (default profile if empty)")
	flags.DurationVar(&a.timeout, "timeout", 0, "Per-request timeout (default from profile, else 10s)")
	flags.StringVar(&a.format, "format", formatText, "Output format (text, json)")
	flags.BoolVar(&a.insecure, "insecure", false, "Skip TLS certificate verification for https cameras")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Show the camera's raw response")

	root.AddCommand(
		a.irCmd(),
		a.panCmd(),
		a.zoomCmd(),
		a.stopCmd(),
		a.scheduleCmd(),
		a.profileCmd(),
		a.versionCmd(),
	)
	return root
}

// loadRegistry reads the profile file, honouring FOSCAM_CONFIG.
func (a *app) loadRegistry() (*config.Registry, string, error) {
	path, err := config.GetConfigPath()
	if err != nil {
		return nil, "", err
	}
	reg, err := config.LoadRegistryFrom(path)
	if err != nil {
		return nil, "", err
	}
	return reg, path, nil
}

// resolve picks the camera from --url or a profile and fills in defaults.
func (a *app) resolve() (*target, error) {
	reg, path, err := a.loadRegistry()
	if err != nil {
		return nil, err
	}

	t := &target{registry: reg, path: path, verify: true}
	if reg.Preferences != nil {
		t.timeout = reg.Preferences.Timeout
		t.verify = reg.Preferences.VerifyWrites
	}

	if a.url != "" {
		if err := config.ValidateCameraURL(a.url); err != nil {
			return nil, err
		}
		t.url = a.url
		t.username = reg.EffectiveUsername(nil)
	} else {
		name, p, err := reg.Resolve(a.profile)
		if err != nil {
			return nil, fmt.Errorf("no camera selected, use --url or --profile: %w", err)
		}
		t.name = name
		t.url = p.URL
		t.username = reg.EffectiveUsername(p)
		t.record = p.Record
		t.irMode = p.IRMode
		if p.Timeout > 0 {
			t.timeout = p.Timeout
		}
	}

	if a.user != "" {
		t.username = a.user
	}
	if a.timeout > 0 {
		t.timeout = a.timeout
	}
	return t, nil
}

// resolvePassword prefers --password, then FOSCAM_PASSWORD, then a
// prompt when stdin is a terminal. Otherwise the password is empty,
// which is the factory setting.
func (a *app) resolvePassword() (string, error) {
	if a.password != "" {
		return a.password, nil
	}
	if pw, ok := os.LookupEnv(PasswordEnvVar); ok {
		return pw, nil
	}

	f, ok := a.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", nil
	}
	_, _ = fmt.Fprint(a.out, "Camera password: ")
	pw, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// connect resolves the camera and opens a client. The caller closes it.
func (a *app) connect(ctx context.Context) (*camera.Client, *target, error) {
	t, err := a.resolve()
	if err != nil {
		return nil, nil, err
	}
	password, err := a.resolvePassword()
	if err != nil {
		return nil, nil, err
	}

	cfg := camera.Config{
		BaseURL:  t.url,
		Username: t.username,
		Password: password,
		Timeout:  t.timeout,
		Record:   t.record,
	}
	if a.insecure {
		timeout := t.timeout
		if timeout <= 0 {
			timeout = cgi.DefaultTimeout
		}
		cfg.HTTPClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
	}

	client, err := camera.NewClientWithConfig(ctx, cfg)
	if err != nil {
		return nil, t, err
	}
	if t.irMode != nil {
		if err := client.SetDefaultIRMode(*t.irMode); err != nil {
			_ = client.Close()
			return nil, t, fmt.Errorf("profile %q: %w", t.name, err)
		}
	}

	if t.name != "" {
		t.registry.MarkUsed(t.name)
		if err := t.registry.SaveTo(t.path); err != nil {
			logging.Warn("Failed to record profile use", zap.String("profile", t.name), zap.Error(err))
		}
	}
	return client, t, nil
}

// rememberIRMode stores mode as the profile's default IR mode. Without a
// profile there is nowhere to keep it.
func (a *app) rememberIRMode(t *target, mode camera.IRMode) {
	if t.name == "" {
		return
	}
	p := t.registry.GetProfile(t.name)
	if p == nil {
		return
	}
	p.IRMode = &mode
	t.irMode = &mode
	if err := t.registry.SaveTo(t.path); err != nil {
		logging.Warn("Failed to save IR mode", zap.String("profile", t.name), zap.Error(err))
	}
}

// withClient connects, runs fn and closes the client. Connection
// failures are reported with the given title.
func (a *app) withClient(ctx context.Context, title string, fn func(*camera.Client, *target) error) error {
	client, t, err := a.connect(ctx)
	if err != nil {
		return a.fail(title, err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			logging.Warn("Failed to close camera client", zap.Error(cerr))
		}
	}()
	return fn(client, t)
}

// fail prints a failure box in text mode and returns the error so the
// command exits non-zero.
func (a *app) fail(title string, err error) error {
	if a.format == formatJSON {
		return err
	}
	a.printer.PrintError(title, err, troubleshooting(err))
	return &reportedError{err: err}
}

// success prints a success box in text mode or v as JSON.
func (a *app) success(title string, details map[string]string, v any) error {
	if a.format == formatJSON {
		return a.writeJSON(v)
	}
	a.printer.PrintSuccess(title, details)
	return nil
}

// raw prints the last response in verbose text mode.
func (a *app) raw(res *cgi.Result) {
	if !a.verbose || a.format == formatJSON || res == nil {
		return
	}
	a.printer.Newline()
	a.printer.PrintRaw(ui.NewRawFields(res.Command, res.Fields()))
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// troubleshooting turns a multi-line hint into bullet items.
func troubleshooting(err error) []string {
	if _, ok := cgi.AsError(err); !ok {
		return nil
	}

	var tips []string
	for _, line := range strings.Split(cgi.TroubleshootingHint(err), "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "• ")
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		tips = append(tips, line)
	}
	return tips
}

// matchName returns the entry of names equal to s ignoring case.
func matchName(names []string, s string) (string, bool) {
	for _, n := range names {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return n, true
		}
	}
	return "", false
}
