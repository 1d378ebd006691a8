package binder

import "errors"

var (
	// ErrBinderNotApplicable tells handler.Wrap to skip this binder for the request.
	ErrBinderNotApplicable  = errors.New("binder not applicable")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrBodyTooLarge         = errors.New("request body too large")
)
