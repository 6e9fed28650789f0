// Foscam-emulator serves an emulated Foscam camera over HTTP.
//
// It answers the CGI commands foscam-ctl uses (IR, pan/tilt/zoom and
// the recording schedule) and keeps the camera state in memory, so the
// CLI can be tried without hardware.
//
// Usage:
//
//	foscam-emulator [flags]
//
// See 'foscam-emulator --help' for available options.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/foscam/internal/camera"
	"github.com/muurk/foscam/internal/schedule"
	"github.com/muurk/foscam/internal/server"
	"github.com/muurk/foscam/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	config := server.DefaultConfig()
	var (
		irMode   string
		windows  []string
		certPath string
		keyPath  string
	)

	root := &cobra.Command{
		Use:   "foscam-emulator",
		Short: "Emulated Foscam camera",
		Long: `Serve an emulated Foscam camera on the CGIProxy.fcgi endpoint.

The emulator keeps IR, pan/tilt/zoom and recording schedule state in
memory and answers the same commands a camera does, including device
result codes for bad credentials and malformed requests.

Use --tls to serve HTTPS. Without --cert and --key a self-signed
certificate is generated in memory; pass --insecure to foscam-ctl.`,
		Example: `  # Camera on port 8088 with a password
  foscam-emulator --port 8088 --password secret

  # Start with a schedule and IR in schedule mode
  foscam-emulator --ir-mode schedule --window monday,9:30,14:00 --window friday,18:00,23:30

  # HTTPS with a generated certificate
  foscam-emulator --tls --port 8443`,
		Version:      version.Version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := camera.ParseIRMode(irMode)
			if err != nil {
				return err
			}
			config.IRMode = int(mode)

			week, err := parseWindows(windows)
			if err != nil {
				return err
			}
			config.Week = week

			if config.TLS {
				if (certPath == "") != (keyPath == "") {
					return fmt.Errorf("both --cert and --key must be provided together, or neither (will auto-generate)")
				}
				config.CertPath, config.KeyPath = certPath, keyPath
				config.GenerateCert = certPath == ""
			}

			srv, err := server.New(config)
			if err != nil {
				return fmt.Errorf("failed to create emulator: %w", err)
			}
			if err := srv.Listen(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Emulated camera at %s (user %q)\n", srv.URL(), config.Username)
			return srv.Start()
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.Flags()
	flags.StringVar(&config.Host, "host", "127.0.0.1", "Listen address (empty = all interfaces)")
	flags.IntVar(&config.Port, "port", config.Port, "Listen port")
	flags.StringVar(&config.Username, "user", config.Username, "Accepted username")
	flags.StringVar(&config.Password, "password", "", "Accepted password")
	flags.StringVar(&irMode, "ir-mode", "auto", "Initial IR mode (auto, manual, schedule)")
	flags.StringArrayVar(&windows, "window", nil, "Initial recording window as day,start,end (repeatable)")
	flags.StringVar(&config.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.IntVar(&config.MaxRequests, "max-requests", config.MaxRequests, "Requests kept in the emulator's log")
	flags.BoolVar(&config.TLS, "tls", false, "Serve HTTPS")
	flags.StringVar(&certPath, "cert", "", "TLS certificate file (optional, generated if not provided)")
	flags.StringVar(&keyPath, "key", "", "TLS private key file (optional, generated if not provided)")

	return root
}

// parseWindows turns "day,start,end" flags into a week.
func parseWindows(windows []string) (schedule.Week, error) {
	var args []string
	for _, w := range windows {
		parts := strings.Split(w, ",")
		if len(parts) != 3 {
			return schedule.Week{}, fmt.Errorf("invalid --window %q (want day,start,end)", w)
		}
		args = append(args, parts...)
	}

	segs, err := schedule.ParseSegments(args)
	if err != nil {
		return schedule.Week{}, err
	}
	return schedule.Encode(schedule.Week{}, segs)
}
