package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/jas7457/playlist-party/app/api"
	"github.com/jas7457/playlist-party/app/observability"
)

// Router builds the HTTP router with the full middleware chain. Everything
// under /api requires a bearer token; /health does not.
func (app *App) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware(app.Metrics))
	r.Use(api.CORSMiddleware(app.Config.HTTP.AllowedOrigins))
	r.Use(api.RateLimitMiddleware(api.NewIPRateLimiter(rate.Limit(10), 30)))

	r.Get("/health", app.healthCheck)

	r.Group(func(r chi.Router) {
		r.Use(api.AuthMiddleware(app.Config.JWT.Secret))

		app.userHandlers.RegisterRoutes(r)
		app.leagueHandlers.RegisterRoutes(r)
		app.roundHandlers.RegisterRoutes(r)
		app.submissionHandlers.RegisterRoutes(r)
		app.voteHandlers.RegisterRoutes(r)
	})

	return r
}

func (app *App) healthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := app.db.GetDB().PingContext(ctx); err != nil {
		api.RespondError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	if err := app.queue.HealthCheck(ctx); err != nil {
		api.RespondError(w, http.StatusServiceUnavailable, "job queue unreachable")
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Start runs the API server, the metrics endpoint, and the job queue until
// the context is cancelled, then drains them.
func (app *App) Start(ctx context.Context) error {
	if err := app.queue.Start(ctx); err != nil {
		return err
	}

	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		go func() {
			if err := observability.ServeMetrics(ctx, addr, app.Metrics, app.Logger); err != nil {
				app.Logger.ErrorContext(ctx, "Metrics server stopped", slog.Any("error", err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              app.Config.HTTP.Addr,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.InfoContext(ctx, "API server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Failed to shut down API server cleanly", slog.Any("error", err))
	}

	return nil
}
