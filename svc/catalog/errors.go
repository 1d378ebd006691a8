package catalog

import "errors"

var (
	ErrInvalidCatalog = errors.New("catalog: invalid catalog data")
	ErrUnknownModel   = errors.New("catalog: unknown model")
)
