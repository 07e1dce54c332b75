package main

import (
	"context"

	"github.com/desertthunder/sortify/internal/shared"
	"github.com/desertthunder/sortify/internal/ui"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a starter config file and initialize the history database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// Setup writes the example config when none exists and runs database migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		r.logger.Warnf("config file not created: %v", err)
	} else {
		r.writePlain("%s wrote %s\n", ui.Styles.OK.Render("✓"), path)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.Migrate(db); err != nil {
		return err
	}

	r.writePlain("%s initialized database at %s\n", ui.Styles.OK.Render("✓"), r.config.Database.Path)
	return nil
}
