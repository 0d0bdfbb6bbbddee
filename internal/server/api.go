package server

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/singme/internal/recommendations"
	"github.com/desertthunder/singme/internal/shared"
)

// MetricsHandler is the subset of the metrics package the API needs.
type MetricsHandler interface {
	RequestObserver
	Handler() http.Handler
}

// APIOpts configures [NewAPI]. Engine is required; everything else is optional.
type APIOpts struct {
	Engine      recommendations.ScoringEngine
	Logger      *log.Logger
	Metrics     MetricsHandler
	RateLimiter *RateLimiter
	ListLimit   int
}

// NewAPI assembles the JSON API: request IDs, panic recovery, access logs, metrics and per-client rate limiting
// around the recommendation and health handlers. /metrics is served outside the rate limiter.
func NewAPI(opts APIOpts) *BasicRouter {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	router := NewBasicRouter()
	router.Use(RequestID(), Recover(logger), Logging(logger))

	if opts.Metrics != nil {
		router.Handle(http.MethodGet, "/metrics", opts.Metrics.Handler())
		router.Use(Observe(opts.Metrics))
	}

	router.Handler(HealthHandler{})

	if opts.RateLimiter != nil {
		router.Use(RateLimit(opts.RateLimiter, logger))
	}

	router.Handler(NewRecommendationHandler(opts.Engine, opts.ListLimit, logger))
	return router
}
