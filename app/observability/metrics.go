package observability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	SubmissionsTotal  prometheus.Counter
	VotesCast         prometheus.Counter
	NotificationsSent *prometheus.CounterVec
	// StageUnknown counts rounds that resolved to an indeterminate stage,
	// which indicates bad schedule data.
	StageUnknown prometheus.Counter
}

// NewMetrics registers the service instruments on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "playlist_party_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "playlist_party_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		SubmissionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "playlist_party_submissions_total",
			Help: "Song submissions accepted.",
		}),
		VotesCast: factory.NewCounter(prometheus.CounterOpts{
			Name: "playlist_party_votes_cast_total",
			Help: "Votes cast, including updates and retractions.",
		}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "playlist_party_notifications_sent_total",
			Help: "Notifications published by code.",
		}, []string{"code"}),
		StageUnknown: factory.NewCounter(prometheus.CounterOpts{
			Name: "playlist_party_round_stage_unknown_total",
			Help: "Rounds whose stage could not be determined.",
		}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ServeMetrics runs a dedicated metrics listener until the context is done.
func ServeMetrics(ctx context.Context, addr string, metrics *Metrics, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", slog.Any("error", err))
		}
	}()

	logger.Info("Metrics server listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
