package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/alanquantic/voltdrive/pkg/logger"
	"github.com/alanquantic/voltdrive/pkg/requestid"
)

func asHTTPError(err error) (HTTPError, bool) {
	var httpErr HTTPError
	ok := errors.As(err, &httpErr)
	return httpErr, ok
}

// NewErrorHandler renders errors as the JSON envelope. Client errors log at
// WARN, everything else at ERROR with the full cause.
func NewErrorHandler(log *slog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx Context, err error) {
		r := ctx.Request()
		status := http.StatusInternalServerError
		if httpErr, ok := asHTTPError(err); ok {
			status = httpErr.Code
		}

		level := slog.LevelError
		if status >= 400 && status < 500 {
			level = slog.LevelWarn
		}
		log.LogAttrs(r.Context(), level, "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			logger.StatusCode(status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := FailError(err).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error envelope", logger.Error(renderErr))
		}
	}
}

// Recoverer converts a panic into a logged 500 envelope.
// http.ErrAbortHandler is re-panicked.
func Recoverer(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.ErrorContext(r.Context(), "panic recovered",
					logger.RequestID(requestid.FromContext(r.Context())),
					logger.Error(fmt.Errorf("panic: %v", rec)),
					slog.String("stack", string(debug.Stack())),
					slog.String("path", r.URL.Path),
					logger.Component("recoverer"),
				)
				_ = Fail(http.StatusInternalServerError, InternalErrorMessage).Render(w, r)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
