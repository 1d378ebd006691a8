// Package templates renders templ components into email bodies.
package templates

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

// Render renders tpl to a string.
func Render(ctx context.Context, tpl templ.Component) (string, error) {
	var sb strings.Builder
	if err := tpl.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderPair renders the HTML and plain-text variants of one message.
func RenderPair(ctx context.Context, html, text templ.Component) (string, string, error) {
	h, err := Render(ctx, html)
	if err != nil {
		return "", "", err
	}
	t, err := Render(ctx, text)
	if err != nil {
		return "", "", err
	}
	return h, t, nil
}
