package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	lib "github.com/danjac/wallpaper-randomzier/lib"
	"github.com/urfave/cli/v2"
)

const configFlag = "config"
const logLevel = "log-level"
const logFormat = "log-format"

var closeLog = func() error { return nil }

// Set when logs go to a file instead of stderr
var logFile string

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := newApp().RunContext(ctx, os.Args)
	os.Exit(finish(err, os.Stderr))
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "wallpaper-randomizer"
	app.Usage = "Set a random image from a directory as the GNOME wallpaper"
	app.ArgsUsage = "[DIR]"
	app.Flags = append([]cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage: "Config file to read instead of searching for " +
				"wallpaper-randomizer.toml",
		},
		&cli.StringFlag{
			Name:  logLevel,
			Usage: "One of debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  logFormat,
			Usage: "text or json",
		},
	}, randomFlags()...)
	// The log file stays open until finish so the final error still lands in it
	app.Before = beforeFunc
	app.Commands = []*cli.Command{
		randomCommand(),
		listCommand(),
		setCommand(),
		sessionCommand(),
	}
	app.Action = randomAction

	return app
}

func beforeFunc(c *cli.Context) error {
	conf, err := lib.Init(c.String(configFlag))
	if err != nil {
		return err
	}

	opts := lib.LogOptions{
		Level:  conf.LogLevel,
		Format: conf.LogFormat,
		File:   conf.LogFile,
		Output: c.App.ErrWriter,
	}
	if c.IsSet(logLevel) {
		opts.Level = c.String(logLevel)
	}
	if c.IsSet(logFormat) {
		opts.Format = c.String(logFormat)
	}

	logger, closer, err := lib.NewLogger(opts)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	closeLog = closer
	logFile = opts.File

	if conf.LoadErr != nil {
		slog.Info("No config found, using defaults", "error", conf.LoadErr)
	} else {
		slog.Debug("Loaded config", "source", conf.Source)
	}
	return nil
}

// Logs err, closes the log and returns the exit code
func finish(err error, stderr io.Writer) int {
	code := 0
	if err != nil {
		code = 1
		slog.Error(err.Error())
		// Someone running this by hand won't be watching the log file
		if logFile != "" {
			fmt.Fprintln(stderr, err)
		}
	}

	if cerr := closeLog(); cerr != nil {
		fmt.Fprintf(stderr, "Error closing log file: %v\n", cerr)
	}
	closeLog = func() error { return nil }
	logFile = ""
	return code
}
