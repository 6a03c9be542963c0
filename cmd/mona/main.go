package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pikdum/mona/internal/cache"
	"github.com/pikdum/mona/internal/config"
	"github.com/pikdum/mona/internal/handlers"
	"github.com/pikdum/mona/internal/platform/httpserver"
	"github.com/pikdum/mona/internal/platform/logging"
	"github.com/pikdum/mona/internal/platform/run"
	"github.com/pikdum/mona/internal/resolver"
	"github.com/pikdum/mona/internal/scrape"
	"github.com/pikdum/mona/internal/tvdb"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		run.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		run.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	tvdbOpts := []tvdb.Option{tvdb.WithPin(cfg.TVDBPin), tvdb.WithLogger(log)}
	if cfg.TVDBBaseURL != "" {
		tvdbOpts = append(tvdbOpts, tvdb.WithBaseURL(cfg.TVDBBaseURL))
	}
	catalog := tvdb.New(cfg.TVDBAPIKey, tvdbOpts...)
	res := resolver.New(catalog, log)

	scrapeClient := scrape.NewHTTPClient()
	subsplease := scrape.NewSubsplease(cfg.SubspleaseBaseURL, scrapeClient, log)
	nyaa := scrape.NewNyaa(scrapeClient, log)

	posterCache := cache.NewRedirects(cfg.CacheCapacity, cfg.CacheTTL)
	fanartCache := cache.NewRedirects(cfg.CacheCapacity, cfg.CacheTTL)
	torrentCache := cache.NewRedirects(cfg.CacheCapacity, 0)

	r := chi.NewRouter()
	httpserver.SetupRouter(r, log)

	if cfg.RateLimitRPS > 0 {
		limiter := handlers.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(limiter.Middleware)
		log.Info("rate limiting enabled",
			zap.Float64("rps", cfg.RateLimitRPS),
			zap.Int("burst", cfg.RateLimitBurst))
	}

	r.Group(func(r chi.Router) {
		r.Use(handlers.CacheRedirects(posterCache, "query"))
		r.Use(handlers.RequireSession(catalog, log))
		r.Get("/poster", handlers.Poster(res, subsplease, log))
	})
	r.Group(func(r chi.Router) {
		r.Use(handlers.CacheRedirects(fanartCache, "query"))
		r.Use(handlers.RequireSession(catalog, log))
		r.Get("/fanart", handlers.Fanart(res, log))
	})
	r.Group(func(r chi.Router) {
		r.Use(handlers.CacheRedirects(torrentCache, "url"))
		r.Get("/torrent-art", handlers.TorrentArt(nyaa, log))
	})

	srv := httpserver.New(httpserver.Options{
		Addr:   cfg.HTTPAddr,
		Logger: log,
		Router: r,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("http server shutdown", zap.Error(err))
			}
		}()
		return srv.Start(log)
	})
	run.Exit(code)
}
