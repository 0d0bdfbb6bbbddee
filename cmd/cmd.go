// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const (
	defaultConfigPath = "config.toml"
	defaultTopAmount  = 10
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

// setupCommand handles database setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, initialize the database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupRollback,
			},
			{
				Name:   "status",
				Usage:  "List migrations and whether they are applied",
				Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
				Action: r.SetupStatus,
			},
		},
	}
}

// serveCommand runs the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the recommendations JSON API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override server.host",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Override server.port",
			},
		},
		Action: r.Serve,
	}
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Submit a new recommendation",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
			&cli.StringArg{Name: "link"},
		},
		Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
		Action: r.Add,
	}
}

func upvoteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upvote",
		Aliases:   []string{"up"},
		Usage:     "Add one to a recommendation's score",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags:     []cli.Flag{configFlag()},
		Action:    r.Upvote,
	}
}

func downvoteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "downvote",
		Aliases:   []string{"down"},
		Usage:     "Subtract one from a recommendation's score, removing it below -5",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags:     []cli.Flag{configFlag()},
		Action:    r.Downvote,
	}
}

func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List recommendations, newest first",
		Flags: append([]cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of recommendations to show (0 = all)",
			},
		}, jsonFlags()...),
		Action: r.List,
	}
}

func topCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "top",
		Usage:     "Show the highest scored recommendations",
		Arguments: []cli.Argument{&cli.StringArg{Name: "amount", UsageText: "number of recommendations (default 10)"}},
		Flags:     append([]cli.Flag{configFlag()}, jsonFlags()...),
		Action:    r.Top,
	}
}

func randomCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "random",
		Usage:  "Pick a score-weighted random recommendation",
		Flags:  append([]cli.Flag{configFlag()}, jsonFlags()...),
		Action: r.Random,
	}
}

func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a single recommendation",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags:     append([]cli.Flag{configFlag()}, jsonFlags()...),
		Action:    r.Show,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write recommendations to a CSV, Markdown, text or JSON file",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "csv, markdown, text or json",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file (default recommendations.<ext>)",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Export only the N highest scored recommendations (0 = all, newest first)",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand launches the interactive browser.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse and vote on recommendations interactively",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI is running",
				Value: "./tmp/singme-tui.log",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Number of recommendations in the top view",
				Value: defaultTopAmount,
			},
		},
		Action: r.TUI,
	}
}
