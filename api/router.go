package api

import (
	"net/http"
	"time"

	"github.com/UZHBCON/deathnote"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// NewRouter mounts all endpoints. State is read from db, usually an
// app.ABCIStore. A nil events handler or gatherer disables the
// corresponding endpoint.
func NewRouter(db deathnote.ReadOnlyKVStore, events http.Handler, gatherer prometheus.Gatherer, logger log.Logger) http.Handler {
	h := NewHandler(db, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	h.Register(r)
	if events != nil {
		r.Method(http.MethodGet, "/events", events)
	}
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func requestLogger(logger log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start))
		})
	}
}
