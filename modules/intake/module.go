// Package intake mounts the quote intake endpoint, POST /api/quote.
//
// Every answer is the {ok, error} envelope. Non-POST methods get 405 with
// Allow: POST, throttled callers get 429, and panics become 500
// "internal error".
package intake

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alanquantic/voltdrive/handler"
	"github.com/alanquantic/voltdrive/pkg/binder"
	"github.com/alanquantic/voltdrive/pkg/logger"
	"github.com/alanquantic/voltdrive/pkg/ratelimit"
	"github.com/alanquantic/voltdrive/pkg/sanitizer"
	intakesvc "github.com/alanquantic/voltdrive/svc/intake"
	"github.com/alanquantic/voltdrive/svc/quote"
)

// Client-visible messages.
const (
	MessageMethodNotAllowed = "Method Not Allowed"
	MessageInvalidJSON      = "Invalid JSON body"
	MessageBodyTooLarge     = "Request body too large"
	MessageNotConfigured    = "email provider not configured"
	MessageTooManyRequests  = "Too Many Requests"
)

// Submitter processes a decoded quote request.
type Submitter interface {
	Submit(ctx context.Context, req quote.Request) error
}

// Option configures the module.
type Option func(*Module)

func WithLogger(log *slog.Logger) Option {
	return func(m *Module) {
		if log != nil {
			m.log = log
		}
	}
}

// WithLimiter throttles POST requests per client address.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(m *Module) {
		m.limiter = l
	}
}

// WithMaxBodySize caps the request body. The default is 64KB.
func WithMaxBodySize(n int64) Option {
	return func(m *Module) {
		if n > 0 {
			m.maxBody = n
		}
	}
}

// Module serves the intake endpoint.
type Module struct {
	svc     Submitter
	log     *slog.Logger
	limiter *ratelimit.Limiter
	maxBody int64
}

func New(svc Submitter, opts ...Option) *Module {
	m := &Module{
		svc:     svc,
		log:     logger.Discard(),
		maxBody: 64 << 10,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With(logger.Component("quote_api"))
	return m
}

// Handle returns the router to mount at /api/quote.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(handler.Recoverer(m.log))
	r.MethodNotAllowed(methodNotAllowed)

	r.With(ratelimit.Middleware(m.limiter, ratelimit.ByClientIP, m.tooManyRequests)).
		Post("/", handler.Wrap(m.submit,
			handler.WithBinders[handler.Context, quote.Request](
				binder.JSON(
					binder.WithMaxSize(m.maxBody),
					binder.WithStringTransform(sanitizer.Clean),
				),
			),
			handler.WithErrorHandler[handler.Context, quote.Request](m.bindError),
		))

	return r
}

func (m *Module) submit(ctx handler.Context, req quote.Request) handler.Response {
	err := m.svc.Submit(ctx, req)
	if err == nil {
		return handler.Success(nil)
	}

	httpErr := mapError(err)
	if httpErr.Code == http.StatusInternalServerError && !errors.Is(err, intakesvc.ErrProviderNotConfigured) {
		m.log.ErrorContext(ctx, "quote intake failed", logger.Error(err))
	}
	return handler.FailError(httpErr)
}

// mapError turns a service error into the status and message the caller sees.
func mapError(err error) handler.HTTPError {
	var (
		missing  *intakesvc.MissingFieldsError
		invalid  *intakesvc.InvalidFieldsError
		dispatch *intakesvc.DispatchError
	)
	switch {
	case errors.As(err, &missing):
		return handler.NewHTTPError(http.StatusBadRequest, missing.Error(), err)
	case errors.As(err, &invalid):
		return handler.NewHTTPError(http.StatusBadRequest, invalid.Error(), err)
	case errors.Is(err, intakesvc.ErrProviderNotConfigured):
		return handler.NewHTTPError(http.StatusInternalServerError, MessageNotConfigured, err)
	case errors.As(err, &dispatch):
		return handler.NewHTTPError(http.StatusBadGateway, dispatch.Public(), err)
	default:
		return handler.NewHTTPError(http.StatusInternalServerError, handler.InternalErrorMessage, err)
	}
}

func (m *Module) bindError(ctx handler.Context, err error) {
	httpErr := handler.NewHTTPError(http.StatusBadRequest, MessageInvalidJSON, err)
	if errors.Is(err, binder.ErrBodyTooLarge) {
		httpErr = handler.NewHTTPError(http.StatusRequestEntityTooLarge, MessageBodyTooLarge, err)
	}
	handler.NewErrorHandler(m.log)(ctx, httpErr)
}

func (m *Module) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	m.log.WarnContext(r.Context(), "quote request throttled", slog.String("client_ip", ratelimit.ByClientIP(r)))
	_ = handler.Fail(http.StatusTooManyRequests, MessageTooManyRequests).Render(w, r)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = handler.Fail(http.StatusMethodNotAllowed, MessageMethodNotAllowed,
		handler.WithHeader("Allow", http.MethodPost),
	).Render(w, r)
}
