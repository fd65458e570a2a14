// cmd/web/main.go
//
// Bodalink – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load layered config (.env → conf/global.yaml → BODA_* env), with
//     `vault:` secret references resolved in place.
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the control-plane DB.  A failure here is logged, not fatal:
//     the registry falls back to the Redis slot, then the built-in seed,
//     and the guest endpoints answer 503 until the DB returns.
//
//  4. Connect the Redis cache slot and the media bucket store.
//
//  5. Build the client registry and run the one-shot load chain.
//
//  6. Build the chi router (tenant middleware, visitor API, admin API,
//     /metrics, /healthz), optionally wrapped with ForceHTTPS.
//
//  7. Serve with hardened timeouts; SIGINT/SIGTERM drains gracefully.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bodalink/bodalink/internal/cache"
	"github.com/bodalink/bodalink/internal/client"
	"github.com/bodalink/bodalink/internal/config"
	"github.com/bodalink/bodalink/internal/database"
	"github.com/bodalink/bodalink/internal/guest"
	"github.com/bodalink/bodalink/internal/hostmap"
	"github.com/bodalink/bodalink/internal/logger"
	"github.com/bodalink/bodalink/internal/registry"
	"github.com/bodalink/bodalink/internal/server"
	"github.com/bodalink/bodalink/internal/storage"
	"github.com/bodalink/bodalink/internal/web"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Config ──────────────────────────────────────────────────────
	//
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}
	defer logOut.Sync()

	//
	// ── 3.  Control-plane DB (optional) ────────────────────────────────
	//
	var remote registry.RemoteStore
	var guests *guest.Repository
	if cfg.Database.DSN == "" {
		logOut.Warn("no database DSN configured, running cache-only")
	} else if db, err := database.Open(ctx, cfg.Database.DSN); err != nil {
		logOut.Warnw("database unavailable, running cache-only", "err", err)
	} else {
		defer db.Close()
		remote = client.NewRepository(db)
		guests = guest.NewRepository(db)
		logOut.Info("control-plane DB online")
	}

	//
	// ── 4.  Cache slot and media store ─────────────────────────────────
	//
	redis := cache.NewRedis(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
	if err := redis.Ping(ctx); err != nil {
		logOut.Warnw("redis unreachable at boot, persistence degraded",
			"addr", cfg.Cache.Addr, "err", err)
	}
	buckets := storage.NewFS(cfg.Storage.MediaRoot)

	//
	// ── 5.  Client registry ────────────────────────────────────────────
	//
	reg := registry.New(remote, redis, buckets, logOut)
	n := reg.Load(ctx)
	logOut.Infow("client book loaded", "clients", n)

	//
	// ── 6.  Router ─────────────────────────────────────────────────────
	//
	platform := hostmap.Platform{
		RootDomain:    cfg.Platform.RootDomain,
		TenantMarker:  cfg.Platform.TenantMarker,
		OverrideParam: cfg.Platform.OverrideParam,
	}
	handler := web.New(reg, guests, platform,
		cfg.Admin.User, cfg.Admin.PasswordHash, logOut).Router()
	if cfg.HTTP.ForceHTTPS {
		handler = web.ForceHTTPS(handler)
	}

	//
	// ── 7.  Serve ──────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler)
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := server.Run(ctx, srv, logOut); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Info("bye")
}
