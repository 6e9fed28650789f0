// Foscam-ctl controls Foscam IP cameras over their CGI interface.
//
// It switches the infrared LEDs, moves the pan/tilt head and zoom, and
// reads or writes the weekly recording schedule. Cameras can be named
// once with 'foscam-ctl profile save' and then addressed by profile.
//
// Usage:
//
//	foscam-ctl [command] [flags]
//
// See 'foscam-ctl --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx)
	stop()

	if err != nil {
		// Failures already rendered as a result box only need the exit code
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
