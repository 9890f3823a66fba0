// Package cip turns a MobiFlight event list (.cip) into FSUIPC custom event
// files and describes the custom controls FSUIPC assigns to them.
package cip

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/flightrig/fsuipcgen/fsuipc"
	"github.com/flightrig/fsuipcgen/ini"
)

const (
	// Module prefixes every event name in the event files.
	Module = "MobiFlight"
	// ShortPrefix ends every event file name.
	ShortPrefix = "MB"
	// SkipGroup holds the simulator's own events, which need no event file.
	SkipGroup = "STANDARD"
	// EventsPerFile is how many events FSUIPC accepts from one file.
	EventsPerFile = 256
	// ControlBase is the control number of the first event of the first
	// event file; every further file starts EventsPerFile higher.
	ControlBase = 32768
)

var (
	groupLine = regexp.MustCompile(`^(.*):GROUP$`)
	eventLine = regexp.MustCompile(`^(\d+)=(\S+)`)
)

// Group is one group of a .cip file.
type Group struct {
	Name   string
	Events []string
}

// ParseCIP reads a .cip event list. A line "<name>:GROUP" starts a group,
// every other non-blank line names an event of the current group. Events
// before the first group are dropped.
func ParseCIP(r io.Reader) ([]Group, error) {
	var groups []Group
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" {
			continue
		}
		if m := groupLine.FindStringSubmatch(line); m != nil {
			groups = append(groups, Group{Name: m[1]})
			continue
		}
		if len(groups) == 0 {
			continue
		}
		g := &groups[len(groups)-1]
		g.Events = append(g.Events, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read cip: %w", err)
	}
	return groups, nil
}

// GroupIndex maps every qualified event name ("MobiFlight.<event>") to its
// group.
func GroupIndex(groups []Group) map[string]string {
	idx := make(map[string]string)
	for _, g := range groups {
		for _, e := range g.Events {
			idx[Module+"."+e] = g.Name
		}
	}
	return idx
}

// EventFile is the content of one .evt file.
type EventFile struct {
	Name   string
	Events []string
}

// Paginate splits the events of all groups except SkipGroup into event
// files of at most EventsPerFile events, named 000_MB, 001_MB, ...
func Paginate(groups []Group) []EventFile {
	var files []EventFile
	for _, g := range groups {
		if g.Name == SkipGroup {
			continue
		}
		for _, e := range g.Events {
			if len(files) == 0 || len(files[len(files)-1].Events) == EventsPerFile {
				files = append(files, EventFile{Name: fmt.Sprintf("%03d_%s", len(files), ShortPrefix)})
			}
			f := &files[len(files)-1]
			f.Events = append(f.Events, e)
		}
	}
	return files
}

// Write renders the file: an [Events] header and "<i>=MobiFlight.<event>"
// lines numbered from 0.
func (f EventFile) Write(w *ini.Writer) error {
	w.Line("[Events]")
	for i, e := range f.Events {
		w.Line(strconv.Itoa(i) + "=" + Module + "." + e)
	}
	return w.Err()
}

// WriteEventFiles writes the event files for groups into dir and returns
// their paths.
func WriteEventFiles(dir string, groups []Group, crlf bool) ([]string, error) {
	var paths []string
	for _, f := range Paginate(groups) {
		p := filepath.Join(dir, f.Name+".evt")
		if err := writeFile(p, crlf, f.Write); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func writeFile(path string, crlf bool, fn func(*ini.Writer) error) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(ini.NewWriter(out, crlf)); err != nil {
		_ = out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// Event is one "<n>=<event>" line of an event file.
type Event struct {
	Num  int
	Name string
}

// ReadEventFile reads the numbered events of an .evt file.
func ReadEventFile(r io.Reader) ([]Event, error) {
	var out []Event
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := eventLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: event number %q", fsuipc.ErrInvalidArgument, m[1])
		}
		out = append(out, Event{Num: n, Name: m[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read event file: %w", err)
	}
	return out, nil
}

// EventFileNames lists the event files FSUIPC loads, in load order, from
// the [EventFiles] section of an FSUIPC INI file.
func EventFileNames(r io.Reader) ([]string, error) {
	kvs, err := ini.ReadSection(r, "EventFiles")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(kvs))
	for _, kv := range kvs {
		names = append(names, kv.Value)
	}
	return names, nil
}

const (
	eventWidth = 70
	groupRule  = 15
	noGroup    = "-"
)

// ControlInfo writes a tab-separated list of the custom controls of the
// loaded event files: control number, event and .cip group. The lines
// parse as a control table.
func ControlInfo(w *ini.Writer, files [][]Event, groupOf map[string]string) error {
	w.Line(fmt.Sprintf("%-5.5s\t%-*.*s\tGroup", "Ctrl#", eventWidth, eventWidth, "Event"))
	w.Line(strings.Repeat("=", 5) + "\t" + strings.Repeat("=", eventWidth) + "\t" + strings.Repeat("=", groupRule))
	for i, evts := range files {
		base := ControlBase + EventsPerFile*i
		for _, e := range evts {
			grp, ok := groupOf[e.Name]
			if !ok {
				grp = noGroup
			}
			w.Line(fmt.Sprintf("%-5d\t%-*.*s\t%s", base+e.Num, eventWidth, eventWidth, e.Name, grp))
		}
	}
	return w.Err()
}
