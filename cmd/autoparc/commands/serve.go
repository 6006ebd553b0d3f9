// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"autoparc/internal/auth"
	"autoparc/internal/cache"
	"autoparc/internal/config"
	"autoparc/internal/database"
	"autoparc/internal/handlers"
	"autoparc/internal/middleware"
	"autoparc/internal/router"
	"autoparc/internal/storage"
	"autoparc/internal/store"
)

var noSeed bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the API server. Pending migrations are applied first; in
development the sample data is seeded too (disable with --no-seed).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&noSeed, "no-seed", false, "Skip the development seed")
}

// revocationList is satisfied by auth.Revocations.
type revocationList interface {
	handlers.TokenRevoker
	middleware.RevocationChecker
}

func runServe(ctx context.Context) error {
	cfg := loaded
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := openDB(cfg, true)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.IsDev() && !noSeed {
		if err := database.Seed(ctx, db); err != nil {
			return err
		}
	}

	// Valkey backs the response cache and the logout revocation list. The
	// API keeps working without it; logout then only discards the token
	// client-side.
	var (
		respCache handlers.ResponseCache
		revoker   revocationList
	)
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, running without cache and token revocation", "error", err)
	} else {
		defer valkeyClient.Close()
		jsonCache := cache.NewJSONCache(valkeyClient, cache.DefaultTTL)
		// Cached responses may predate the migrations just applied.
		jsonCache.InvalidateAll(ctx)
		respCache = jsonCache
		revoker = auth.NewRevocations(valkeyClient)
	}

	uploader, uploadDir, err := newUploader(cfg)
	if err != nil {
		return err
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute)
	defer limiter.Stop()

	deps := router.Deps{
		Tokens:         tokens,
		Accounts:       store.NewUserStore(db),
		AuthLimiter:    limiter,
		CORSOrigin:     cfg.CORSOrigin,
		TrustedProxies: proxies,
		UploadDir:      uploadDir,
		System:         handlers.NewSystem(db, respCache),
		Users:          handlers.NewUsers(db, tokens, revoker, respCache),
		Cars:           handlers.NewCars(db, respCache),
		Showrooms:      handlers.NewShowrooms(db, respCache),
		News:           handlers.NewNews(db),
		Upload:         handlers.NewUpload(uploader),
	}
	if revoker != nil {
		deps.Revocations = revoker
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second, // multipart uploads
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// newUploader returns S3 storage when it is configured and local disk
// otherwise. The directory is returned only for local storage, which the
// router then serves under /uploads.
func newUploader(cfg *config.Config) (storage.Uploader, string, error) {
	if cfg.S3Enabled() {
		s3, err := storage.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			return nil, "", fmt.Errorf("s3 storage: %w", err)
		}
		if s3 != nil {
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
			return s3, "", nil
		}
	}

	local, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, "", fmt.Errorf("local storage: %w", err)
	}
	slog.Warn("s3 storage not configured, storing uploads on local disk", "dir", local.Dir())
	return local, local.Dir(), nil
}
