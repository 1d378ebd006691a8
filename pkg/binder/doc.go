// Package binder decodes HTTP request bodies into typed request values for
// the handler package.
//
// JSON is tolerant in the way browsers and form posters need: an empty body
// decodes to the zero value, unknown fields are ignored unless Strict is
// given, and a body sent with a non-JSON content type is reported as
// ErrBinderNotApplicable so handler.Wrap skips the binder instead of failing.
//
//	handler.Wrap(h, handler.WithBinders[handler.Context, Request](
//	    binder.JSON(binder.WithStringTransform(sanitizer.Clean)),
//	))
//
// A string transform, when configured, is applied to every string reachable
// from the decoded value, including named string types, slices and maps.
package binder
