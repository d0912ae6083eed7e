package main

import (
	"fmt"

	lib "github.com/danjac/wallpaper-randomzier/lib"
	"github.com/urfave/cli/v2"
)

func sessionCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "session"
	cmd.Usage = "Print the window manager of the current X session"

	cmd.Action = sessionAction

	return cmd
}

func sessionAction(c *cli.Context) error {
	wm, err := lib.WindowManager("")
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s (gnome: %t)\n", wm, lib.IsGnome(wm))
	return nil
}
