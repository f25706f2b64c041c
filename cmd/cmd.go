// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes configuration and the audit database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config file, initialize audit database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// serveCommand runs the shell harness: bridge listener + redirect capture
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the local bridge and redirect listener",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}

// authCommand drives one authorization flow from the terminal
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Run a single authorization flow against the configured identity provider",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "Override the authorization endpoint URL",
			},
		},
		Action: r.Auth,
	}
}

// flowsCommand lists recent audit records
func flowsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "flows",
		Usage: "List recent authorization flows from the audit trail",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of flows to list",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Flows,
	}
}
