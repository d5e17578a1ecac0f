package http

import (
	"context"
	"net/http"
	"time"

	"airport-cyber-crisis/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Pinger is implemented by backends that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter mounts the game endpoints:
//
//	GET    /healthz
//	GET    /leaderboard?limit=n
//	DELETE /leaderboard
//	GET    /ws?device=id
func NewRouter(service *app.GameService, dependencies map[string]Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	boards := NewLeaderboardHandler(service)
	ws := NewWSHandler(service)

	r.Get("/healthz", healthHandler(dependencies))
	r.Get("/leaderboard", boards.List)
	r.Delete("/leaderboard", boards.Clear)
	r.Get("/ws", ws.ServeWS)
	return r
}

func healthHandler(dependencies map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, dep := range dependencies {
			if err := dep.Ping(ctx); err != nil {
				log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
				writeError(w, http.StatusServiceUnavailable, name+" unavailable")
				return
			}
		}
		w.Write([]byte("ok"))
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		}()

		next.ServeHTTP(ww, r)
	})
}
