package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
// An empty id yields an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Provider records the email provider name.
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// StatusCode records an HTTP status code, ours or a provider's.
func StatusCode(code int) slog.Attr {
	return slog.Int("status_code", code)
}

// Body records a (provider) response body.
func Body(body string) slog.Attr {
	return slog.String("body", body)
}

// Recipient records an email recipient address.
func Recipient(addr string) slog.Attr {
	return slog.String("recipient", addr)
}

// State records a pipeline or dialog state name.
func State(name string) slog.Attr {
	return slog.String("state", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
