// Package catalog exposes the read-only vehicle catalog over HTTP.
package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alanquantic/voltdrive/handler"
	"github.com/alanquantic/voltdrive/pkg/logger"
	"github.com/alanquantic/voltdrive/pkg/sanitizer"
	"github.com/alanquantic/voltdrive/svc/catalog"
)

// MessageUnknownModel is answered with 404 for a key the catalog lacks.
const MessageUnknownModel = "Unknown model"

// Index lists every model with the full accessory set.
type Index struct {
	Models      []*catalog.Model    `json:"models"`
	Accessories []catalog.Accessory `json:"accessories"`
}

// Detail is one model with the accessories that fit it and its roof choices.
type Detail struct {
	Model       *catalog.Model      `json:"model"`
	Accessories []catalog.Accessory `json:"accessories"`
	Roofs       []string            `json:"roofs"`
}

type modelRequest struct {
	Key string
}

type previewRequest struct {
	Key   string
	Color string
	Seats string
}

// Module serves the catalog endpoints.
type Module struct {
	reg          *catalog.Registry
	log          *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

// New returns a Module over reg. A nil reg uses the embedded catalog.
func New(reg *catalog.Registry, log *slog.Logger) *Module {
	if reg == nil {
		reg = catalog.Default()
	}
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component("catalog_api"))
	return &Module{reg: reg, log: log, errorHandler: handler.NewErrorHandler(log)}
}

// Handle returns the router to mount at /api/catalog.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(handler.Recoverer(m.log))

	r.Get("/", handler.Wrap(m.index,
		handler.WithErrorHandler[handler.Context, struct{}](m.errorHandler),
	))
	r.Get("/{model}", handler.Wrap(m.detail,
		handler.WithBinders[handler.Context, modelRequest](bindModel),
		handler.WithErrorHandler[handler.Context, modelRequest](m.errorHandler),
	))
	r.Get("/{model}/preview", handler.Wrap(m.preview,
		handler.WithBinders[handler.Context, previewRequest](bindPreview),
		handler.WithErrorHandler[handler.Context, previewRequest](m.errorHandler),
	))

	return r
}

func (m *Module) index(_ handler.Context, _ struct{}) handler.Response {
	return handler.Success(Index{
		Models:      m.reg.Models(),
		Accessories: m.reg.Accessories(""),
	})
}

func (m *Module) detail(_ handler.Context, req modelRequest) handler.Response {
	model, err := m.reg.Lookup(req.Key)
	if err != nil {
		return m.lookupFailed(err)
	}
	return handler.Success(Detail{
		Model:       model,
		Accessories: model.Accessories(),
		Roofs:       model.Roofs(),
	})
}

func (m *Module) preview(_ handler.Context, req previewRequest) handler.Response {
	model, err := m.reg.Lookup(req.Key)
	if err != nil {
		return m.lookupFailed(err)
	}
	return handler.Success(model.ResolvePreview(req.Color, req.Seats))
}

func (m *Module) lookupFailed(err error) handler.Response {
	if errors.Is(err, catalog.ErrUnknownModel) {
		return handler.Fail(http.StatusNotFound, MessageUnknownModel)
	}
	return handler.FailError(err)
}

func bindModel(r *http.Request, v any) error {
	req, ok := v.(*modelRequest)
	if !ok {
		return nil
	}
	req.Key = sanitizer.Clean(chi.URLParam(r, "model"))
	return nil
}

func bindPreview(r *http.Request, v any) error {
	req, ok := v.(*previewRequest)
	if !ok {
		return nil
	}
	q := r.URL.Query()
	req.Key = sanitizer.Clean(chi.URLParam(r, "model"))
	req.Color = sanitizer.Clean(q.Get("color"))
	req.Seats = sanitizer.Clean(q.Get("seats"))
	return nil
}
