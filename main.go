package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sadopc/workpulse/internal/cli"
	"github.com/sadopc/workpulse/internal/config"
	"github.com/sadopc/workpulse/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path. Defaults to the user config directory." type:"path"`
	Debug   bool   `help:"Log at debug level."`

	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Report   cli.ReportCmd   `cmd:"" help:"Print or save a status report."`
	Export   cli.ExportCmd   `cmd:"" help:"Export all data as JSON or CSV."`
	Import   cli.ImportCmd   `cmd:"" help:"Replace data from a JSON backup."`
	Snapshot cli.SnapshotCmd `cmd:"" help:"Show this week's snapshot."`
	Sync     cli.SyncCmd     `cmd:"" help:"Sync with the cloud copy now."`
	Remote   struct {
		Set   cli.RemoteSetCmd   `cmd:"" help:"Store the remote connection string in the system keyring."`
		Clear cli.RemoteClearCmd `cmd:"" help:"Remove the stored remote connection string."`
	} `cmd:"" help:"Manage the cloud sync connection."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("workpulse"),
		kong.Description("Track projects, tasks and wins, and turn them into status reports."),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	var cfg *config.Config
	var err error
	if CLI.Config != "" {
		cfg, err = config.LoadFrom(CLI.Config)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	debug := CLI.Debug || cfg.Log.Debug
	if err := logger.Init(logger.Config{
		Debug:   debug,
		Console: debug && ctx.Command() != "tui",
		DataDir: cfg.DataDir(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", err)
		logger.Discard()
	}
	logger.Debug("starting", "command", ctx.Command(), "db", cfg.DBPath, "sync", cfg.Sync.Enabled)

	if err := ctx.Run(&cli.Context{Config: cfg}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
