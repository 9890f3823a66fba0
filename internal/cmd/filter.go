package cmd

import (
	"bytes"
	"log/slog"

	"github.com/flightrig/fsuipcgen/ini"
)

// Filter copies an INI file without some of its sections.
type Filter struct {
	Input    string   `arg:"" help:"INI file to read" type:"existingfile"`
	Sections []string `arg:"" help:"Sections to leave out; Buttons also drops Buttons.<profile>"`

	Dest `embed:""`
}

// Run is called by Kong when the filter command is executed.
func (f *Filter) Run(logger *slog.Logger) error {
	var buf bytes.Buffer
	if err := filterFile(f.Input, ini.NewWriter(&buf, f.CRLF()), f.Sections); err != nil {
		return err
	}
	if err := f.Write(buf.Bytes()); err != nil {
		return err
	}
	logger.Info("Filtered INI", "input", f.Input, "output", f.Output, "dropped", f.Sections)
	return nil
}
