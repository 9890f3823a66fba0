//go:build windows

package main

import (
	"log/slog"
	"os"

	"github.com/flightrig/fsuipcgen/internal/console"
)

// A double-clicked fsuipcgen has no arguments; run generate with whatever
// the config files next to it say.
func init() {
	if len(os.Args) > 1 || !console.LaunchedFromExplorer() {
		return
	}
	slog.Info("Detected GUI startup, running 'generate' from the config file")
	slog.Warn("Run from a CLI for more options!")
	os.Args = append(os.Args, "generate")
}
