package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flightrig/fsuipcgen/fsuipc"
	"github.com/flightrig/fsuipcgen/ini"
	"github.com/flightrig/fsuipcgen/internal/cip"
)

// CipCommand groups the MobiFlight event list tools.
type CipCommand struct {
	Evt  CipEvt  `cmd:"" help:"Write FSUIPC event files (NNN_MB.evt) for a MobiFlight .cip event list"`
	Info CipInfo `cmd:"" help:"List the custom controls FSUIPC assigns to the loaded event files"`
}

// CipEvt writes the event files of a .cip list.
type CipEvt struct {
	Cip        string `arg:"" help:"MobiFlight .cip event list" type:"existingfile"`
	Dir        string `short:"d" help:"Directory to write the event files to" default:"." type:"path" env:"FSUIPCGEN_EVT_DIR"`
	LineEnding string `help:"Line ending of the event files" enum:"lf,crlf" default:"crlf"`
}

// Run is called by Kong when the cip evt command is executed.
func (c *CipEvt) Run(logger *slog.Logger) error {
	groups, err := readCIP(c.Cip)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", c.Dir, err)
	}
	paths, err := cip.WriteEventFiles(c.Dir, groups, c.LineEnding == "crlf")
	for _, p := range paths {
		logger.Debug("Wrote event file", "file", p)
	}
	if err != nil {
		return err
	}
	logger.Info("Wrote event files", "cip", c.Cip, "dir", c.Dir, "groups", len(groups), "files", len(paths))
	return nil
}

// CipInfo lists the custom controls of the event files an FSUIPC INI
// loads, with the .cip group of every event.
type CipInfo struct {
	Cip    string `arg:"" help:"MobiFlight .cip event list" type:"existingfile"`
	Ini    string `help:"FSUIPC INI whose [EventFiles] section lists the loaded event files" required:"" type:"existingfile" env:"FSUIPCGEN_INI"`
	EvtDir string `help:"Directory holding the event files; defaults to the directory of the INI" type:"path"`

	Dest `embed:""`
}

// Run is called by Kong when the cip info command is executed.
func (c *CipInfo) Run(logger *slog.Logger) error {
	groups, err := readCIP(c.Cip)
	if err != nil {
		return err
	}
	names, err := eventFileNames(c.Ini)
	if err != nil {
		return err
	}

	dir := c.EvtDir
	if dir == "" {
		dir = filepath.Dir(c.Ini)
	}
	files := make([][]cip.Event, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		if filepath.Ext(p) == "" {
			p += ".evt"
		}
		evts, err := readEventFile(p)
		if err != nil {
			return err
		}
		logger.Debug("Read event file", "file", p, "events", len(evts))
		files = append(files, evts)
	}

	var buf bytes.Buffer
	if err := cip.ControlInfo(ini.NewWriter(&buf, c.CRLF()), files, cip.GroupIndex(groups)); err != nil {
		return err
	}
	if err := c.Write(buf.Bytes()); err != nil {
		return err
	}
	logger.Info("Listed custom controls", "ini", c.Ini, "event_files", len(files))
	return nil
}

func readCIP(path string) ([]cip.Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	groups, err := cip.ParseCIP(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return groups, nil
}

func eventFileNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return cip.EventFileNames(f)
}

func readEventFile(path string) ([]cip.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: event file %s: %w", fsuipc.ErrNotFound, path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	evts, err := cip.ReadEventFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return evts, nil
}
