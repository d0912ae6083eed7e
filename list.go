package main

import (
	"fmt"

	lib "github.com/danjac/wallpaper-randomzier/lib"
	"github.com/urfave/cli/v2"
)

func listCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "list"
	cmd.Usage = "Print every wallpaper in DIR that random could select"
	cmd.ArgsUsage = "[DIR]"

	cmd.Action = listAction

	return cmd
}

func listAction(c *cli.Context) error {
	dir, err := wallpaperDir(c)
	if err != nil {
		return err
	}

	candidates, err := lib.NewSelector(nil).Candidates(dir)
	if err != nil {
		return err
	}

	for _, p := range candidates {
		fmt.Fprintln(c.App.Writer, p)
	}
	return nil
}
