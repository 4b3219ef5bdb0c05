package main

import (
	"context"
	"net/http"

	"github.com/Surzhikov161/Refferal-App/config"
	"github.com/Surzhikov161/Refferal-App/internal/domain"
	"github.com/Surzhikov161/Refferal-App/internal/repository"
	"github.com/Surzhikov161/Refferal-App/pkg/logger"
	"github.com/Surzhikov161/Refferal-App/pkg/router"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
	"github.com/Surzhikov161/Refferal-App/pkg/xredis"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client

	userRepo         repository.UserRepository
	referralCodeRepo repository.ReferralCodeRepository
	referralRepo     repository.ReferralRepository

	authDomain     domain.AuthDomain
	referralDomain domain.ReferralDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(cctx *cli.Context) {
	var err error
	s.configs, err = config.Load(cctx.String("config"))
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.logger = logger.NewLogger(level)
	s.ctx = xcontext.WithLogger(context.Background(), s.logger)
	s.ctx = xcontext.WithConfigs(s.ctx, s.configs)
}

func (s *srv) loadDatabase() {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       s.configs.Database.ConnectionString(),
		DefaultStringSize:         256,
		DisableDatetimePrecision:  true,
		DontSupportRenameIndex:    true,
		DontSupportRenameColumn:   true,
		SkipInitializeWithVersion: false,
	}), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.db = db
	s.ctx = xcontext.WithDB(s.ctx, db)
}

func (s *srv) loadRedis() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}

	s.redisClient = redisClient
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.referralCodeRepo = repository.NewReferralCodeRepository()
	s.referralRepo = repository.NewReferralRepository()
}

func (s *srv) loadDomains() {
	s.referralDomain = domain.NewReferralDomain(
		s.userRepo, s.referralCodeRepo, s.referralRepo, s.redisClient)
	s.authDomain = domain.NewAuthDomain(s.userRepo, s.referralDomain)
}
