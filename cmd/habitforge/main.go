package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitforge/internal/cli"
	"github.com/julianstephens/habitforge/internal/logger"
	"github.com/julianstephens/habitforge/internal/storage"
	"github.com/julianstephens/habitforge/internal/tracker"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Database file path. A .json extension selects the JSON store." type:"path" default:"~/.config/habitforge/habitforge.db"`
	Postgres string `help:"PostgreSQL connection string. Overrides --config." env:"HABITFORGE_POSTGRES"`
	Debug    bool   `help:"Enable debug logging."`

	Init  cli.InitCmd `cmd:"" help:"Initialize habitforge storage."`
	Tui   cli.TuiCmd  `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit struct {
		Add       cli.HabitAddCmd       `cmd:"" help:"Add a new habit."`
		List      cli.HabitListCmd      `cmd:"" help:"List habits with progress and streaks."`
		Edit      cli.HabitEditCmd      `cmd:"" help:"Edit a habit."`
		Archive   cli.HabitArchiveCmd   `cmd:"" help:"Archive a habit, keeping its history."`
		Unarchive cli.HabitUnarchiveCmd `cmd:"" help:"Bring an archived habit back."`
		Delete    cli.HabitDeleteCmd    `cmd:"" help:"Delete a habit and its history."`
	} `cmd:"" help:"Manage habits."`
	Log      cli.LogCmd      `cmd:"" help:"Log completions for a habit."`
	Undo     cli.UndoCmd     `cmd:"" help:"Remove logged completions."`
	Progress cli.ProgressCmd `cmd:"" help:"Show progress for the current period."`
	Streak   cli.StreakCmd   `cmd:"" help:"Show current streaks."`
	Heatmap  cli.HeatmapCmd  `cmd:"" help:"Show a completion heatmap."`
	Export   cli.ExportCmd   `cmd:"" help:"Export all data to a zip archive."`
	Import   cli.ImportCmd   `cmd:"" help:"Replace all data from a zip archive."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Snapshot the database."`
		List    cli.BackupListCmd    `cmd:"" help:"List database snapshots."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a database snapshot."`
	} `cmd:"" help:"Manage database snapshots."`
	Settings struct {
		Show cli.SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
		Set  cli.SettingsSetCmd  `cmd:"" help:"Change a setting."`
	} `cmd:"" help:"Manage settings."`
	Reset  cli.ResetCmd  `cmd:"" help:"Delete all habit data."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitforge"),
		kong.Description("Personal habit tracker with streaks and heatmaps"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	var store storage.Provider
	switch {
	case CLI.Postgres != "":
		store = storage.NewPostgresStore(CLI.Postgres)
	case strings.HasSuffix(CLI.Config, ".json"):
		store = storage.NewJSONStore(CLI.Config)
	default:
		store = storage.NewSQLiteStore(CLI.Config)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:   store,
		Tracker: tracker.New(store),
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
