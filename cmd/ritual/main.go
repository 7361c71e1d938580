package main

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ritualapp/ritual/internal/cli"
	"github.com/ritualapp/ritual/internal/habits"
	"github.com/ritualapp/ritual/internal/kv"
	"github.com/ritualapp/ritual/internal/logger"
	"github.com/ritualapp/ritual/internal/notify"
	"github.com/ritualapp/ritual/internal/profile"
	"github.com/ritualapp/ritual/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Storage path: a directory, or a .db file for SQLite." type:"path" default:"~/.config/ritual"`
	Debug    bool   `help:"Verbose logging to stderr."`
	Timezone string `help:"IANA timezone override for day boundaries."`

	Today    cli.TodayCmd    `cmd:"" help:"Show today's habits." default:"1"`
	Tui      cli.TuiCmd      `cmd:"" help:"Interactive today view."`
	Mark     cli.MarkCmd     `cmd:"" help:"Toggle a habit's completion for a day."`
	Log      cli.LogCmd      `cmd:"" help:"Show completion history."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show completion percentage and streaks."`
	Motivate cli.MotivateCmd `cmd:"" help:"Print a motivational message for a habit."`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits."`
	Export   cli.ExportCmd   `cmd:"" help:"Export habits and logs to a backup file."`
	Import   cli.ImportCmd   `cmd:"" help:"Import a backup file (merge by id)."`
	Prefs    cli.PrefsCmd    `cmd:"" help:"Show or change preferences."`
	Wipe     cli.WipeCmd     `cmd:"" help:"Delete all data."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ritual"),
		kong.Description("Local-first habit tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.3.0"},
	)

	configDir := CLI.Config
	var store kv.Store
	var err error
	if strings.HasSuffix(CLI.Config, ".db") {
		configDir = filepath.Dir(CLI.Config)
		store, err = kv.NewSQLiteStore(CLI.Config)
	} else {
		store, err = kv.NewFileStore(CLI.Config)
	}
	if err != nil {
		cli.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		cli.Fatal(err)
	}

	prefs := profile.Load(store)
	tz := prefs.Timezone
	if CLI.Timezone != "" {
		tz = CLI.Timezone
	}

	sched := notify.NewTrayScheduler()
	gateway := storage.New(store)
	habitStore := habits.New(gateway, sched, tz)
	habitStore.Hydrate()

	appCtx := &cli.Context{
		Store: habitStore,
		KV:    store,
		Prefs: prefs,
		Sched: sched,
	}

	err = ctx.Run(appCtx)

	// Pending debounced writes must land before the process exits.
	if flushErr := gateway.Close(); flushErr != nil && err == nil {
		err = flushErr
	}
	if err != nil {
		cli.Fatal(err)
	}
}
