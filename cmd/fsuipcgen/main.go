package main

import (
	"io"
	"os"
	"strings"

	"github.com/flightrig/fsuipcgen/internal/config"
	"github.com/flightrig/fsuipcgen/internal/configpaths"
	"github.com/flightrig/fsuipcgen/internal/log"

	_ "github.com/flightrig/fsuipcgen/internal/registry" // Register all device layouts

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {

	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("fsuipcgen"),
		kong.Description("Generate FSUIPC [Buttons] INI sections from button profiles"),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	// Keep stdout clean for commands that print their result there.
	var console io.Writer = os.Stdout
	if cli.ResultOnStdout(ctx.Command()) {
		console = os.Stderr
	}

	logger, closeFiles, err := log.SetupLoggerTo(cli.Log.Level, cli.Log.File, console)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var records log.RecordLogger
	if cli.Log.RecordsFile != "" {
		f, err := os.OpenFile(cli.Log.RecordsFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open records file", "file", cli.Log.RecordsFile, "error", err)
			records = log.NewRecords(nil)
		} else {
			records = log.NewRecords(f)
			closeFiles = append(closeFiles, f)
		}
	} else if cli.Log.Level == "trace" {
		records = log.NewRecords(console)
	} else {
		records = log.NewRecords(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(records, (*log.RecordLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("FSUIPCGEN_CONFIG"); v != "" {
		return v
	}
	return ""
}
