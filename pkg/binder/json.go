package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (1MB).
const DefaultMaxJSONSize = 1 << 20

// Bind decodes part of a request into v.
type Bind = func(r *http.Request, v any) error

type jsonConfig struct {
	maxSize   int64
	transform func(string) string
}

// JSONOption configures the JSON binder.
type JSONOption func(*jsonConfig)

// WithMaxSize caps the accepted body size.
func WithMaxSize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithStringTransform applies fn to every decoded string.
func WithStringTransform(fn func(string) string) JSONOption {
	return func(c *jsonConfig) { c.transform = fn }
}

// JSON creates a JSON body binder.
func JSON(opts ...JSONOption) Bind {
	cfg := jsonConfig{maxSize: DefaultMaxJSONSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
			}
			if mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json") {
				return ErrBinderNotApplicable
			}
		}
		if r.Body == nil {
			return nil
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, cfg.maxSize+1))
		if err != nil {
			return fmt.Errorf("%w: failed to read request body: %v", ErrFailedToParseJSON, err)
		}
		if int64(len(body)) > cfg.maxSize {
			return fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, cfg.maxSize)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}

		decoder := json.NewDecoder(bytes.NewReader(body))
		if err := decoder.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}

		var extra json.RawMessage
		if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
		}

		if cfg.transform != nil {
			transformStrings(reflect.ValueOf(v), cfg.transform)
		}
		return nil
	}
}

func transformStrings(rv reflect.Value, fn func(string) string) {
	switch rv.Kind() {
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(fn(rv.String()))
		}
	case reflect.Struct:
		for i := range rv.NumField() {
			if f := rv.Field(i); f.CanSet() {
				transformStrings(f, fn)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			transformStrings(rv.Index(i), fn)
		}
	case reflect.Map:
		if rv.Type().Elem().Kind() != reflect.String {
			return
		}
		for _, key := range rv.MapKeys() {
			val := reflect.New(rv.Type().Elem()).Elem()
			val.SetString(fn(rv.MapIndex(key).String()))
			rv.SetMapIndex(key, val)
		}
	case reflect.Pointer, reflect.Interface:
		if !rv.IsNil() {
			transformStrings(rv.Elem(), fn)
		}
	}
}
