// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a decoded request value and returns a
// Response. Wrap assembles binders and an error handler around it:
//
//	r.Post("/api/quote", handler.Wrap(svc.submit,
//	    handler.WithBinders[handler.Context, quote.Request](binder.JSON()),
//	    handler.WithErrorHandler[handler.Context, quote.Request](handler.NewErrorHandler(log)),
//	))
//
// API answers share one JSON envelope, {"ok": bool, "error": string}, with an
// optional "data" member. Success and Fail build it; Fail can also advertise
// headers such as Allow. Errors returned to the error handler are mapped to
// the envelope through HTTPError; anything else becomes a 500 "internal error"
// and is logged with the request id.
//
// Recoverer turns panics in downstream handlers into the same 500 envelope.
package handler
