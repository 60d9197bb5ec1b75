package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	api "github.com/mind-engage/certprep/internal/api/http"
	"github.com/mind-engage/certprep/internal/attempt"
	"github.com/mind-engage/certprep/internal/auth"
	authmw "github.com/mind-engage/certprep/internal/auth/middleware"
	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/cache"
	"github.com/mind-engage/certprep/internal/config"
	"github.com/mind-engage/certprep/internal/db"
	"github.com/mind-engage/certprep/internal/storage"
	syncx "github.com/mind-engage/certprep/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, log)
	},
}

func openBlobStore(ctx context.Context, cfg config.Config) (storage.BlobStore, error) {
	switch cfg.BlobDriver {
	case "minio":
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		return storage.NewFSStore(cfg.BlobBasePath)
	}
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db open: %w", err)
	}
	defer dbh.Close()

	bs, err := openBlobStore(openCtx, cfg)
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}
	base, err := bank.Builtin()
	if err != nil {
		return fmt.Errorf("builtin banks: %w", err)
	}
	reg := bank.NewRegistry(base, bs)
	if err := reg.Reload(openCtx); err != nil {
		log.Warn("stored packs not loaded; serving builtin banks", zap.Error(err))
	}

	events := syncx.NewEventRepo(dbh)
	sinks := syncx.Fanout{events}
	if cfg.AMQPURL != "" {
		pub, err := syncx.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}
	opts := []attempt.ServiceOption{attempt.WithEvents(sinks), attempt.WithLogger(log)}
	if cfg.RedisAddr != "" {
		sc, err := cache.NewRedisStatsCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StatsTTL)
		if err != nil {
			return err
		}
		defer sc.Close()
		opts = append(opts, attempt.WithStatsCache(sc))
	}
	svc := attempt.NewService(attempt.NewSQLStore(dbh), opts...)

	handler := api.NewRouter(api.Deps{
		Log:      log,
		Registry: reg,
		Attempts: svc,
		Events:   events,
		Sessions: auth.NewSessions(svc, auth.CookieConfig{
			Name:   cfg.SessionCookieName,
			TTL:    cfg.SessionTTL,
			Secure: cfg.SecureCookies,
		}),
		Auth:        authmw.NewAuthService(cfg.JWTSecret),
		Admin:       authmw.Admin{User: cfg.AdminUser, PassHash: cfg.AdminPassHash},
		LocalAuth:   cfg.EnableLocalAuth,
		Blobs:       bs,
		CORSOrigins: cfg.CORSOrigins(),
		Ready:       dbh,
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("db", cfg.DBDriver),
		zap.String("blob", cfg.BlobDriver))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
