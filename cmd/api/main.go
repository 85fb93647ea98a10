package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-goods/internal/config"
	"github.com/ovaphlow/pitchfork/service-goods/internal/good"
	goodrepo "github.com/ovaphlow/pitchfork/service-goods/internal/good/repo"
	"github.com/ovaphlow/pitchfork/service-goods/internal/router"
	"github.com/ovaphlow/pitchfork/service-goods/internal/token"
	"github.com/ovaphlow/pitchfork/service-goods/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-goods/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-goods/pkg/database"
	"github.com/ovaphlow/pitchfork/service-goods/pkg/utilities"
)

func main() {
	// best-effort: without a .env file the real environment is used
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	if err := run(sugar); err != nil {
		sugar.Fatalw("service stopped", "err", err)
	}
	sugar.Info("goodbye")
}

func run(sugar *zap.SugaredLogger) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	sugar.Infow("starting service-goods", "addr", cfg.HTTPAddr, "storage", cfg.StorageDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		users user.Store
		goods good.Store
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		sugar.Warn("using in-memory storage; data is lost on restart")
		users, goods = userrepo.NewMemoryRepo(), goodrepo.NewMemoryRepo()
	default:
		db, err := database.Connect(database.ConfigFromEnv())
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
		users, goods = userrepo.NewUserRepo(db), goodrepo.NewGoodRepo(db)
	}

	ids := utilities.NewIDGeneratorFromEnv()
	var tokens *token.Issuer
	if cfg.JWTSecret != "" {
		tokens, err = token.NewHMACIssuer([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTTTL, ids)
	} else {
		sugar.Warn("JWT_SECRET not set; signing with an ephemeral RSA key, tokens will not survive a restart")
		tokens, err = token.NewEphemeralIssuer(cfg.JWTIssuer, cfg.JWTTTL, ids)
	}
	if err != nil {
		return fmt.Errorf("token issuer: %w", err)
	}

	authSvc := user.NewAuthService(users, user.BcryptHasher{Cost: cfg.BcryptCost}, tokens, sugar.Named("auth"))
	goodSvc := good.NewService(goods, authSvc, sugar.Named("goods"))

	handler := router.RegisterRoutes(sugar,
		user.NewHandler(authSvc, sugar.Named("auth")),
		good.NewHandler(goodSvc, sugar.Named("goods")),
		authSvc,
	)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	sugar.Info("service is running; press Ctrl+C to stop")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	sugar.Info("shutting down")
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnw("http server shutdown failed", "err", err)
	}
	return nil
}
