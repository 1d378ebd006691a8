package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/alanquantic/voltdrive/pkg/logger"
)

// HealthCheckHandler serves liveness and readiness probes.
//
//   - Liveness: with no checks the handler answers 200 "ALIVE".
//   - Readiness: every check must pass for 200 "READY"; the first failure
//     answers 503 "NOT_READY" and is logged.
func HealthCheckHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
