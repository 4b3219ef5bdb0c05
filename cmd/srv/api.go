package main

import (
	"fmt"
	"net/http"

	"github.com/Surzhikov161/Refferal-App/internal/middleware"
	"github.com/Surzhikov161/Refferal-App/pkg/router"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	s.loadConfig(cctx)
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	addr := fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router.Handler(),
	}

	s.logger.Infof("Starting server on %s", addr)
	if s.configs.ApiServer.Cert != "" && s.configs.ApiServer.Key != "" {
		return s.server.ListenAndServeTLS(s.configs.ApiServer.Cert, s.configs.ApiServer.Key)
	}

	return s.server.ListenAndServe()
}

func (s *srv) loadRouter() {
	s.router = router.New(s.db, s.configs, s.logger)
	s.router.AddCloser(middleware.Logger())

	// Public API.
	router.POST(s.router, "/register", s.authDomain.Register)
	router.POST(s.router, "/login", s.authDomain.Login)
	router.GET(s.router, "/getReferralCode", s.referralDomain.GetByEmail)
	router.GET(s.router, "/getReferrals", s.referralDomain.GetReferrals)

	// These following APIs need authentication with Access Token.
	authRouter := s.router.Branch()
	authVerifier := middleware.NewAuthVerifier().WithAccessToken()
	authRouter.Before(authVerifier.Middleware())
	{
		router.GET(authRouter, "/getMe", s.authDomain.GetMe)
		router.POST(authRouter, "/createReferralCode", s.referralDomain.Create)
		router.DELETE(authRouter, "/deleteReferralCode", s.referralDomain.Delete)
	}
}
