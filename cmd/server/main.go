package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wholesale-be/internal/account"
	"wholesale-be/internal/auth"
	"wholesale-be/internal/catalog"
	"wholesale-be/internal/config"
	"wholesale-be/internal/db"
	"wholesale-be/internal/handler"
	"wholesale-be/internal/logger"
	"wholesale-be/internal/metrics"
	"wholesale-be/internal/middleware"
	"wholesale-be/internal/order"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	otel.SetMeterProvider(metrics.Default.Provider())

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return startServerFunc(ctx, ":"+cfg.AppPort, newServer(ctx, cfg, database))
}

func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	accountSvc := account.NewService(account.NewRepository(database), tokens)
	catalogSvc := catalog.NewService(catalog.NewRepository(database))
	orderSvc := order.NewService(order.NewRepository(database), accountSvc)

	mux := http.NewServeMux()
	handler.New(accountSvc, catalogSvc, orderSvc, tokens.TTL()).
		Routes(mux, accountSvc, metrics.Default.Handler())

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Cleanup(ctx, time.Minute)

	var h http.Handler = mux
	h = limiter.Middleware(h)
	h = middleware.Authenticate(tokens)(h)
	h = middleware.CORS(cfg.CORSOrigin)(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}

func startServer(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
