package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/verbridge/internal/admin"
	"github.com/danmuck/verbridge/internal/auth"
	"github.com/danmuck/verbridge/internal/bridge"
	"github.com/danmuck/verbridge/internal/catalog"
	"github.com/danmuck/verbridge/internal/config"
	"github.com/danmuck/verbridge/internal/logging"
	"github.com/danmuck/verbridge/internal/observability"
	"github.com/danmuck/verbridge/internal/relay"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "verbridge: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logging.ConfigureRuntime()
	logger := observability.InitLogger("verbridge")

	cfg, err := config.LoadDaemon()
	if err != nil {
		return err
	}

	hub := admin.NewNoticeHub(admin.DefaultRecent)
	core, err := bridge.New(bridge.Options{
		Installers: []bridge.Installer{catalog.Pack{}},
		Notifier:   hub,
	})
	if err != nil {
		return err
	}
	if err := core.Initialize(cfg.ConfigDir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, logger, cfg, core, hub)
}

func serve(ctx context.Context, logger zerolog.Logger, cfg config.Daemon, core *bridge.Core, hub *admin.NoticeHub) error {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Listen, err)
	}

	gin.SetMode(gin.ReleaseMode)
	adminOpts := admin.Options{CorsOrigins: cfg.CorsOrigins}
	if cfg.AdminToken != "" {
		adminOpts.WriteAuth = auth.StaticToken{Token: cfg.AdminToken}
	}
	adminSrv := &http.Server{
		Addr:              cfg.Admin,
		Handler:           admin.New(core, hub, adminOpts).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	relaySrv := &relay.Server{
		Native:   cfg.Native,
		Upstream: cfg.Upstream,
		Sessions: core,
		Config:   relay.DefaultConfig(),
	}

	logger.Info().
		Str("listen", cfg.Listen).
		Str("upstream", cfg.Upstream).
		Str("admin", cfg.Admin).
		Str("native", cfg.Native).
		Msg("verbridge.serve")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return relaySrv.Serve(gctx, ln)
	})
	g.Go(func() error {
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("admin: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return adminSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
