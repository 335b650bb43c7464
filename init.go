package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/topolint/topolint/internal/config"
)

// initCommand writes a commented starter .topolint.yml so a repo can tune
// the policy instead of relying on defaults.
func initCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "write a default " + config.FileName + " to the repository root",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "print the config instead of writing it"},
			&cli.BoolFlag{Name: "force", Usage: "overwrite an existing " + config.FileName},
		},
		Action: func(c *cli.Context) error {
			root, err := resolveRoot(c)
			if err != nil {
				return err
			}
			return runInit(c, root)
		},
	}
}

func runInit(c *cli.Context, root string) error {
	if c.Bool("dry-run") {
		fmt.Fprint(c.App.Writer, config.DefaultYAML)
		return nil
	}

	path := filepath.Join(root, config.FileName)
	if !c.Bool("force") {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, []byte(config.DefaultYAML), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(c.App.ErrWriter, "wrote %s\n", path)
	return nil
}
