package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/firedintern/meta-fgi/internal/alert"
	"github.com/firedintern/meta-fgi/internal/api/middleware"
	"github.com/firedintern/meta-fgi/internal/api/response"
	"github.com/firedintern/meta-fgi/internal/bot"
	"github.com/firedintern/meta-fgi/internal/cache"
	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/firedintern/meta-fgi/internal/metrics"
	"github.com/firedintern/meta-fgi/internal/provider"
	"github.com/firedintern/meta-fgi/internal/subscriber"
)

// Server is the HTTP surface of the sentiment service.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux

	sentiment  provider.SentimentProvider
	store      subscriber.Store
	dispatcher *bot.Dispatcher
	alerts     *alert.Service
	readCache  *cache.Cache[Reading]
	registry   *metrics.Registry
	now        func() time.Time
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	AdminSecret string
	CronSecret  string
	CacheTTL    time.Duration
}

// Deps bundles the collaborators the route handlers need.
type Deps struct {
	Sentiment  provider.SentimentProvider
	Store      subscriber.Store
	Dispatcher *bot.Dispatcher
	Alerts     *alert.Service
	Metrics    *metrics.Registry
}

// Reading is the read-API payload for the current sentiment score.
type Reading struct {
	MetaScore   int    `json:"meta_score"`
	Status      string `json:"status"`
	DegenStatus string `json:"degen_status"`
	Timestamp   string `json:"timestamp"`
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:     logger,
		mux:        mux,
		sentiment:  deps.Sentiment,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		alerts:     deps.Alerts,
		readCache:  cache.New[Reading](cfg.CacheTTL),
		registry:   deps.Metrics,
		now:        time.Now,
	}

	s.setupRoutes(cfg)

	if s.registry != nil {
		s.httpServer.Handler = metrics.HTTPMiddleware(s.registry, mux)(mux)
	}

	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg Config) {
	adminAuth := middleware.AdminAuth(cfg.AdminSecret)
	cronAuth := middleware.CronAuth(cfg.CronSecret)

	s.mux.HandleFunc("/api/fgi", s.handleFGI)
	s.mux.HandleFunc("/api/telegram/webhook", s.handleWebhook)
	s.mux.Handle("/api/cron/check", cronAuth(http.HandlerFunc(s.handleCronCheck)))
	s.mux.Handle("/api/admin/subscribers", adminAuth(http.HandlerFunc(s.handleAdminSubscribers)))
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.registry != nil {
		s.mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routed handler (for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleFGI serves the current score, from cache when fresh.
func (s *Server) handleFGI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed,
			core.WrapError(core.ErrMethodNotAllowed, nil))
		return
	}

	if reading, ok := s.readCache.Get(); ok {
		s.recordCacheLookup("hit")
		response.JSONCached(w, http.StatusOK, reading, true)
		return
	}
	s.recordCacheLookup("miss")

	score, _, err := s.sentiment.FetchLatest(r.Context())
	if err != nil {
		s.logger.Warn("sentiment fetch failed on read path", zap.Error(err))
		s.recordFetch("error")
		response.Error(w, http.StatusBadGateway, err)
		return
	}
	s.recordFetch("success")

	reading := Reading{
		MetaScore:   score,
		Status:      readStatus(score),
		DegenStatus: degenStatus(score),
		Timestamp:   s.now().UTC().Format(time.RFC3339),
	}
	s.readCache.Set(reading)

	response.JSON(w, http.StatusOK, reading)
}

// handleWebhook accepts Telegram updates. Telegram resends any update that
// does not get a 200, so every outcome short of a broken request body
// answers OK and failures are only logged.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.Error(w, http.StatusMethodNotAllowed,
			core.WrapError(core.ErrMethodNotAllowed, nil))
		return
	}

	var update bot.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.logger.Warn("malformed webhook payload", zap.Error(err))
		response.JSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	if err := s.dispatcher.HandleUpdate(r.Context(), update); err != nil {
		s.logger.Error("webhook handling failed", zap.Error(err))
	}

	response.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleCronCheck runs one alert cycle on behalf of the scheduler.
func (s *Server) handleCronCheck(w http.ResponseWriter, r *http.Request) {
	result := s.alerts.Run(r.Context())

	if s.registry != nil {
		outcome := "sent"
		if result.Skipped {
			outcome = "skipped"
		}
		s.registry.RecordAlertCycle(outcome)
		s.registry.RecordAlertDelivery("success", result.Sent)
		s.registry.RecordAlertDelivery("failure", result.Failed)
	}

	response.JSON(w, http.StatusOK, result)
}

type adminSubscriber struct {
	ChatID       int64  `json:"chat_id"`
	SubscribedAt string `json:"subscribed_at"`
	TelegramLink string `json:"telegram_link"`
}

type adminSubscriberList struct {
	TotalSubscribers int               `json:"total_subscribers"`
	Subscribers      []adminSubscriber `json:"subscribers"`
	Timestamp        string            `json:"timestamp"`
}

// handleAdminSubscribers lists every subscription for the operator.
func (s *Server) handleAdminSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("subscriber listing failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, err)
		return
	}

	list := adminSubscriberList{
		TotalSubscribers: len(subs),
		Subscribers:      make([]adminSubscriber, 0, len(subs)),
		Timestamp:        s.now().UTC().Format(time.RFC3339),
	}
	for _, sub := range subs {
		list.Subscribers = append(list.Subscribers, adminSubscriber{
			ChatID:       sub.ChatID,
			SubscribedAt: sub.SubscribedAt.UTC().Format(time.RFC3339),
			TelegramLink: fmt.Sprintf("https://t.me/%d", sub.ChatID),
		})
	}

	if s.registry != nil {
		s.registry.SetSubscriberCount(len(subs))
	}

	response.JSON(w, http.StatusOK, list)
}

func (s *Server) recordCacheLookup(result string) {
	if s.registry != nil {
		s.registry.RecordCacheLookup(result)
	}
}

func (s *Server) recordFetch(status string) {
	if s.registry != nil {
		s.registry.RecordFetch(s.sentiment.Name(), status)
	}
}

// readStatus maps a score to the read-API status string. The read path
// keeps its own 20-point bands, distinct from the regime table used by
// alerts and the backtest.
func readStatus(score int) string {
	switch {
	case score < 20:
		return "EXTREME FEAR"
	case score < 40:
		return "FEAR"
	case score < 60:
		return "NEUTRAL"
	case score < 80:
		return "GREED"
	default:
		return "EXTREME GREED"
	}
}

func degenStatus(score int) string {
	switch {
	case score < 20:
		return "🔥 FIRE SALE"
	case score < 40:
		return "💎 Accumulate"
	case score < 60:
		return "🤷 Neutral"
	case score < 80:
		return "🚀 Take profits"
	default:
		return "⚠️ TOP SIGNAL"
	}
}
