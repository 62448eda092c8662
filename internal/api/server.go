package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/config"
	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/services"
)

const (
	requestTimeout     = 15 * time.Second
	requestIdleTimeout = 30 * time.Second
)

type Server struct {
	cfg    *config.Config
	svc    *services.Service
	db     db.DbInterface
	server *http.Server
}

func New(cfg *config.Config, svc *services.Service, dbClient db.DbInterface) *Server {
	s := &Server{
		cfg: cfg,
		svc: svc,
		db:  dbClient,
	}

	r := chi.NewRouter()
	r.Use(s.traceRequest)

	r.Get("/healthcheck", s.handleHealthcheck)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/accounts", s.handleRegister)
		r.Get("/accounts/{address}", s.handleGetAccount)
		r.Get("/accounts/{address}/referral-rewards", s.handleGetReferralReward)
		r.Post("/swap", s.handleSwap)
		r.Post("/stake", s.handleStake)
		r.Post("/unstake", s.handleUnstake)
		r.Post("/claim", s.handleClaim)
		r.Post("/withdraw", s.handleWithdraw)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireOperatorKey)
			r.Put("/params", s.handleUpdateParams)
			r.Post("/pause-operations", s.handlePauseOperations)
			r.Post("/pause-withdrawals", s.handlePauseWithdrawals)
			r.Put("/accounts/{address}/balance", s.handleSetBalance)
			r.Put("/program-identities/{address}", s.handleFlagProgramIdentity)
			r.Post("/sweep", s.handleSweep)
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  requestTimeout,
		WriteTimeout: requestTimeout,
		IdleTimeout:  requestIdleTimeout,
	}
	return s
}

func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting api server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
