package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lib "github.com/danjac/wallpaper-randomzier/lib"
	"github.com/urfave/cli/v2"
)

func setCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "set"
	cmd.Usage = "Set FILE as the wallpaper without picking one at random"
	cmd.ArgsUsage = "FILE"
	cmd.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:  timeout,
			Usage: "Seconds to wait for each gsettings call, 0 waits forever",
		},
	}

	cmd.Action = setAction

	return cmd
}

func setAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("Missing input file")
	}

	conf, err := lib.GetConfig()
	if err != nil {
		return err
	}

	w, err := filepath.Abs(c.Args().First())
	if err != nil {
		return err
	}

	if !lib.IsImageFile(w) {
		return fmt.Errorf("%w: [%s] is not a JPEG or PNG", lib.ErrImageNotFound, w)
	}

	fi, err := os.Stat(w)
	if err != nil {
		return fmt.Errorf("%w: %v", lib.ErrImageNotFound, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: [%s] is a directory", lib.ErrImageNotFound, w)
	}

	applier, err := newApplier(c, conf)
	if err != nil {
		return err
	}

	return applyAndReport(c, applier, w)
}
