package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/davecgh/go-spew/spew"

	"github.com/flightrig/fsuipcgen/ini"
	"github.com/flightrig/fsuipcgen/internal/log"
	"github.com/flightrig/fsuipcgen/internal/profile"
)

// Generate compiles a profile into FSUIPC INI sections.
type Generate struct {
	Profile string `short:"p" help:"Profile YAML file" required:"" type:"existingfile" env:"FSUIPCGEN_PROFILE"`
	Update  string `short:"u" help:"Existing FSUIPC INI: keep everything but the generated sections and append them; the file is rewritten unless --output is given" type:"existingfile" env:"FSUIPCGEN_UPDATE"`
	Dump    bool   `help:"Dump the resolved profile at trace level"`

	Dest `embed:""`
}

// dest returns the output with --update filled in as default destination.
func (g *Generate) dest() Dest {
	o := g.Dest
	if o.Output == "" && g.Update != "" {
		o.Output = g.Update
	}
	return o
}

// ResultOnStdout reports whether the INI text goes to stdout.
func (g *Generate) ResultOnStdout() bool { return g.dest().ToStdout() }

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger, records log.RecordLogger) error {
	p, err := profile.Load(g.Profile)
	if err != nil {
		return err
	}
	env, err := profile.NewEnv(p, logger)
	if err != nil {
		return err
	}
	if g.Dump {
		dumpEnv(logger, env)
	}

	out := g.dest()
	crlf := out.CRLF()

	var gen bytes.Buffer
	res, err := env.Compile(p, &gen, profile.Options{CRLF: crlf, Observer: records.Log})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if g.Update != "" {
		if err := filterFile(g.Update, ini.NewWriter(&buf, crlf), res.Sections); err != nil {
			return err
		}
		logger.Debug("Kept existing INI content", "file", g.Update, "bytes", buf.Len())
	}
	_, _ = gen.WriteTo(&buf)

	if err := out.Write(buf.Bytes()); err != nil {
		return err
	}
	logger.Info("Generated INI", "profile", g.Profile, "output", out.Output,
		"sections", len(res.Sections), "entries", res.Entries, "crlf", crlf)
	return nil
}

func filterFile(path string, w *ini.Writer, sections []string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ini.FilterSections(f, w, sections...)
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// dumpEnv logs the resolved declarations. Control tables are summarized,
// they can hold thousands of controls.
func dumpEnv(logger *slog.Logger, env *profile.Env) {
	ctx := context.Background()
	if !logger.Enabled(ctx, log.LevelTrace) {
		return
	}
	tables := make([]string, 0, len(env.Tables))
	for name, tabs := range env.Tables {
		n := 0
		for _, t := range tabs {
			n += t.Len()
		}
		tables = append(tables, fmt.Sprintf("%s (%d controls)", name, n))
	}
	sort.Strings(tables)

	logger.Log(ctx, log.LevelTrace, "Resolved profile",
		"tables", tables,
		"devices", dumpConfig.Sdump(env.Devices),
		"keys", dumpConfig.Sdump(env.Keys),
		"offsets", dumpConfig.Sdump(env.Offsets),
		"groups", dumpConfig.Sdump(env.Groups))
}
