// Package config defines the command line of fsuipcgen.
package config

import (
	"github.com/flightrig/fsuipcgen/internal/cmd"
)

// CLI is the kong command tree. Flags can also come from JSON, YAML or
// TOML config files and from FSUIPCGEN_* environment variables.
type CLI struct {
	ConfigFile string `name:"config" help:"CLI config file (.json, .yaml or .toml); also FSUIPCGEN_CONFIG" type:"path"`
	Log        Log    `embed:"" prefix:"log."`

	Generate cmd.Generate      `cmd:"" help:"Compile a button profile into FSUIPC INI sections"`
	Filter   cmd.Filter        `cmd:"" help:"Copy an INI file without some of its sections"`
	Cip      cmd.CipCommand    `cmd:"" help:"MobiFlight event list tools"`
	Layouts  cmd.Layouts       `cmd:"" help:"List the registered device layouts"`
	Config   cmd.ConfigCommand `cmd:"" help:"Configuration file helpers"`
}

// Log configures logging.
type Log struct {
	Level       string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error" env:"FSUIPCGEN_LOG_LEVEL"`
	File        string `help:"Log to this file instead of the console" type:"path" env:"FSUIPCGEN_LOG_FILE"`
	RecordsFile string `help:"Mirror every written INI entry to this file" type:"path" env:"FSUIPCGEN_LOG_RECORDS_FILE"`
}

// ResultOnStdout reports whether the selected command, as named by
// kong.Context.Command, writes its result to stdout. Console logs then
// have to go elsewhere.
func (c *CLI) ResultOnStdout(command string) bool {
	switch command {
	case "generate":
		return c.Generate.ResultOnStdout()
	case "filter <input> <sections>":
		return c.Filter.ToStdout()
	case "cip info <cip>":
		return c.Cip.Info.ToStdout()
	case "layouts", "layouts <name>":
		return true
	}
	return false
}
