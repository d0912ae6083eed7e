package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	lib "github.com/danjac/wallpaper-randomzier/lib"
	"github.com/urfave/cli/v2"
)

const dryRun = "dry-run"
const requireGnome = "require-gnome"
const timeout = "timeout"

func randomFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    dryRun,
			Aliases: []string{"n"},
			Usage:   "Print the selected wallpaper without setting it",
		},
		&cli.BoolFlag{
			Name: requireGnome,
			Usage: "Checks that the X11 window manager is GNOME and aborts if " +
				"it isn't",
		},
		&cli.IntFlag{
			Name: timeout,
			Usage: "Seconds to wait for each gsettings call, 0 waits forever. " +
				"Overrides CommandTimeout",
		},
	}
}

func randomCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "random"
	cmd.Usage = "Randomly select a wallpaper from DIR and set it"
	cmd.ArgsUsage = "[DIR]"
	cmd.Flags = randomFlags()

	cmd.Action = randomAction

	return cmd
}

// Falls back to the configured Directory
func wallpaperDir(c *cli.Context) (string, error) {
	dir := c.Args().First()
	if dir == "" {
		conf, err := lib.GetConfig()
		if err != nil {
			return "", err
		}
		dir = conf.Directory
	}

	if dir == "" {
		return "", errors.New("Missing wallpaper directory")
	}

	// gsettings needs an absolute file URI
	return filepath.Abs(dir)
}

func randomAction(c *cli.Context) error {
	conf, err := lib.GetConfig()
	if err != nil {
		return err
	}

	if c.Bool(requireGnome) {
		wm, err := lib.WindowManager("")
		if err != nil {
			return err
		}
		if !lib.IsGnome(wm) {
			return fmt.Errorf("Window manager [%s] is not GNOME", wm)
		}
	}

	dir, err := wallpaperDir(c)
	if err != nil {
		return err
	}

	path, err := lib.NewSelector(nil).Select(dir)
	if err != nil {
		return err
	}

	if c.Bool(dryRun) {
		fmt.Fprintln(c.App.Writer, path)
		return nil
	}

	applier, err := newApplier(c, conf)
	if err != nil {
		return err
	}

	return applyAndReport(c, applier, path)
}

func newApplier(c *cli.Context, conf *lib.Config) (*lib.Applier, error) {
	applier := lib.NewApplier(conf)
	if c.IsSet(timeout) {
		if c.Int(timeout) < 0 {
			return nil, errors.New("timeout must not be negative")
		}
		applier.Timeout = time.Duration(c.Int(timeout)) * time.Second
	}
	return applier, nil
}

func applyAndReport(c *cli.Context, applier *lib.Applier, path string) error {
	path, err := applier.Apply(c.Context, path)
	if err != nil {
		var cmdErr *lib.CommandError
		if errors.As(err, &cmdErr) && len(cmdErr.Applied) > 0 {
			slog.Warn("Wallpaper only partially applied",
				"applied", fmt.Sprint(cmdErr.Applied), "failed", cmdErr.Target.String())
		}
		return err
	}

	slog.Info("Changed wallpaper", "path", path)
	fmt.Fprintln(c.App.Writer, path)
	return nil
}
