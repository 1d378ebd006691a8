package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanquantic/voltdrive/pkg/binder"
)

type label string

type payload struct {
	Name   string            `json:"name"`
	Label  label             `json:"label"`
	Tags   []string          `json:"tags"`
	Extra  map[string]string `json:"extra"`
	Nested *struct {
		City string `json:"city"`
	} `json:"nested"`
}

func newRequest(body, contentType string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/quote", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON()(newRequest(`{"name":"Ana","tags":["a","b"],"nested":{"city":"CDMX"}}`, "application/json; charset=utf-8"), &p)
		require.NoError(t, err)
		assert.Equal(t, "Ana", p.Name)
		assert.Equal(t, []string{"a", "b"}, p.Tags)
		require.NotNil(t, p.Nested)
		assert.Equal(t, "CDMX", p.Nested.City)
	})

	t.Run("empty body is the zero value", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, binder.JSON()(newRequest("  ", "application/json"), &p))
		assert.Equal(t, payload{}, p)
	})

	t.Run("missing content type is decoded as JSON", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, binder.JSON()(newRequest(`{"name":"Ana"}`, ""), &p))
		assert.Equal(t, "Ana", p.Name)
	})

	t.Run("other content types are not applicable", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON()(newRequest("name=Ana", "application/x-www-form-urlencoded"), &p)
		assert.ErrorIs(t, err, binder.ErrBinderNotApplicable)
	})

	t.Run("vendor json media types", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, binder.JSON()(newRequest(`{"name":"Ana"}`, "application/vnd.api+json"), &p))
		assert.Equal(t, "Ana", p.Name)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON()(newRequest(`{"name":`, "application/json"), &p)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON()(newRequest(`{"name":"a"} {"name":"b"}`, "application/json"), &p)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("unknown fields tolerated", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, binder.JSON()(newRequest(`{"name":"a","other":1}`, "application/json"), &p))
		assert.Equal(t, "a", p.Name)
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON(binder.WithMaxSize(8))(newRequest(`{"name":"too long"}`, "application/json"), &p)
		assert.ErrorIs(t, err, binder.ErrBodyTooLarge)
	})
}

func TestJSONStringTransform(t *testing.T) {
	t.Parallel()

	var p payload
	body := `{"name":"  Ana ","label":" x ","tags":[" a "],"extra":{"k":" v "},"nested":{"city":" CDMX "}}`
	err := binder.JSON(binder.WithStringTransform(strings.TrimSpace))(newRequest(body, "application/json"), &p)
	require.NoError(t, err)

	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, label("x"), p.Label)
	assert.Equal(t, []string{"a"}, p.Tags)
	assert.Equal(t, map[string]string{"k": "v"}, p.Extra)
	assert.Equal(t, "CDMX", p.Nested.City)
}
