package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "referral-app"
	s.app.Usage = "User accounts with single-use referral codes"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the toml configuration file",
			Value: "config.toml",
		},
	}
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Category:    "Api",
			Description: `Serves the account and referral HTTP API.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Apply pending database migrations",
			Category:    "Database",
			Description: `Brings the database schema up to the latest version.`,
		},
	}
}
