package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nurpe/balance-ledger/internal/auth"
	"github.com/nurpe/balance-ledger/internal/cache"
	"github.com/nurpe/balance-ledger/internal/config"
	"github.com/nurpe/balance-ledger/internal/db"
	"github.com/nurpe/balance-ledger/internal/excel"
	httphandler "github.com/nurpe/balance-ledger/internal/http"
	"github.com/nurpe/balance-ledger/internal/http/middleware"
	"github.com/nurpe/balance-ledger/internal/logger"
	"github.com/nurpe/balance-ledger/internal/pdf"
	"github.com/nurpe/balance-ledger/internal/repository"
	"github.com/nurpe/balance-ledger/internal/service"
	"github.com/nurpe/balance-ledger/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init tracing")
	}

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	store := repository.NewStore(database)

	contractService := service.NewContractService(store)
	paymentService := service.NewPaymentService(store, log)
	depositService := service.NewDepositService(store, cfg.Ledger.DepositCapRatio, log)
	reportService := service.NewReportService(store, excel.NewGenerator(), pdf.NewGenerator(), cfg.Ledger.BestClientsLimit)

	var tokenParser *auth.Parser
	if cfg.Auth.AccessSecret != "" {
		tokenParser = auth.NewParser(cfg.Auth.AccessSecret)
	}
	resolver := auth.NewResolver(store.Profiles, tokenParser, cfg.Auth.AllowProfileHeader)

	var idempotencyStore middleware.IdempotencyStore
	if cfg.Redis.Addr != "" {
		redisClient := cache.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect redis")
		}
		idempotencyStore = cache.NewIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, idempotency keys are ignored")
	}

	handler := httphandler.NewHandler(contractService, paymentService, depositService, reportService, store, log)
	router := httphandler.NewRouter(
		handler,
		middleware.Auth(resolver, cfg.Auth.ProfileHeader),
		middleware.AdminKey(cfg.Auth.AdminAPIKey),
		middleware.Idempotency(idempotencyStore, log),
		httphandler.RouterConfig{
			Environment:    cfg.Environment,
			ServiceName:    cfg.Telemetry.ServiceName,
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		},
		log,
	)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", addr).Msg("starting ledger service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info().Msg("shutting down ledger service")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return shutdownTracing(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
