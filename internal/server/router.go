package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mnemonic-fyi/mnemonic/internal/api"
	"github.com/mnemonic-fyi/mnemonic/internal/api/handlers"
	"github.com/mnemonic-fyi/mnemonic/internal/api/middleware"
	"github.com/mnemonic-fyi/mnemonic/internal/ratelimit"
)

type RouterConfig struct {
	Limiter         *ratelimit.Limiter
	SearchPolicy    ratelimit.Policy
	IngestPolicy    ratelimit.Policy
	SearchHandler   *handlers.SearchHandler
	IngestHandler   *handlers.IngestHandler
	StatsHandler    *handlers.StatsHandler
	ChannelsHandler *handlers.ChannelsHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.Limiter, cfg.SearchPolicy))
		r.Post("/search", cfg.SearchHandler.Search)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.Limiter, cfg.IngestPolicy))
		r.Post("/ingest/slack", cfg.IngestHandler.IngestSlack)
		r.Post("/ingest/notion", cfg.IngestHandler.IngestNotion)
	})

	r.Get("/stats", cfg.StatsHandler.GetStats)
	r.Get("/slack/channels", cfg.ChannelsHandler.ListChannels)

	return r
}
