// Package main provides the g4spectra binary entry point.
// g4spectra converts, generates and plots particle flux spectra for the
// Geant4 General Particle Source.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/roach88/g4spectra/internal/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(cli.ExitFailure)
		}
	}()

	if err := cli.NewRootCommand().Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			// Already rendered by the command.
			os.Exit(cli.GetExitCode(err))
		}
		// Usage errors detected by cobra itself: unknown commands,
		// conflicting flags.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCommandError)
	}
}
