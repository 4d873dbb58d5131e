package middleware

import (
	"net/http"
	"time"

	"pet-adoption-catalog/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestObserver recibe cada request terminado (lo implementa metrics.Metrics).
type RequestObserver interface {
	ObserveRequest(method string, status int)
}

// AccessLog loguea method, path, status y duración con el request id de chi.
// obs puede ser nil.
func AccessLog(log logger.Logger, obs RequestObserver) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
				"bytes":       ww.BytesWritten(),
				"ip":          r.RemoteAddr,
				"request_id":  chimw.GetReqID(r.Context()),
			}

			switch {
			case status >= 500:
				log.Error("request", fields)
			case status >= 400:
				log.Warn("request", fields)
			default:
				log.Info("request", fields)
			}

			if obs != nil {
				obs.ObserveRequest(r.Method, status)
			}
		})
	}
}
