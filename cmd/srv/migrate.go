package main

import (
	"github.com/Surzhikov161/Refferal-App/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()

	return migration.Migrate(s.ctx)
}
