package cmd

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/flightrig/fsuipcgen/internal/configpaths"
)

// Dest is where a command writes its text result.
type Dest struct {
	Output     string `short:"o" help:"Destination file; stdout when empty or -" type:"path" env:"FSUIPCGEN_OUTPUT"`
	LineEnding string `help:"Line ending: auto (CRLF, but LF on a terminal), lf or crlf" enum:"auto,lf,crlf" default:"auto" env:"FSUIPCGEN_LINE_ENDING"`
}

// ToStdout reports whether the result goes to stdout.
func (o Dest) ToStdout() bool {
	return o.Output == "" || o.Output == "-"
}

// CRLF reports whether lines end in "\r\n". Auto mode uses LF only for a
// terminal.
func (o Dest) CRLF() bool {
	switch o.LineEnding {
	case "lf":
		return false
	case "crlf":
		return true
	}
	if o.ToStdout() {
		return !term.IsTerminal(int(os.Stdout.Fd()))
	}
	return true
}

// Write stores data at the destination.
func (o Dest) Write(data []byte) error {
	if o.ToStdout() {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := configpaths.EnsureDir(o.Output); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(o.Output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", o.Output, err)
	}
	return nil
}
