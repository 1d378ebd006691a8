package intake_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanquantic/voltdrive/modules/intake"
	"github.com/alanquantic/voltdrive/pkg/ratelimit"
	intakesvc "github.com/alanquantic/voltdrive/svc/intake"
	"github.com/alanquantic/voltdrive/svc/quote"
)

type recorder struct {
	mu   sync.Mutex
	reqs []quote.Request
	err  error
	pan  any
}

func (r *recorder) Submit(_ context.Context, req quote.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pan != nil {
		panic(r.pan)
	}
	r.reqs = append(r.reqs, req)
	return r.err
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reqs)
}

const validBody = `{
	"customer": {"name": "  Ana  ", "email": "ana@x.mx", "phone": "55 1234", "type": "Renta", "units": 3, "city": "Monterrey", "country": "México"},
	"configuration": {"model": "Aurora 72", "color": "Azul", "seats": "Beige", "roof": "Estándar", "packages": ["Confort"], "selectedAccessories": ["GPS-01"]}
}`

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitSuccess(t *testing.T) {
	t.Parallel()

	svc := &recorder{}
	rec := post(t, intake.New(svc).Handle(), validBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	require.Equal(t, 1, svc.calls())
	got := svc.reqs[0]
	assert.Equal(t, quote.Text("Ana"), got.Customer.Name)
	assert.Equal(t, quote.Text("3"), got.Customer.Units)
	assert.Equal(t, []string{"GPS-01"}, got.Configuration.SelectedAccessories)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	svc := &recorder{}
	h := intake.New(svc).Handle()

	for _, method := range []string{
		http.MethodGet, http.MethodPut, http.MethodDelete,
		http.MethodPatch, http.MethodOptions, "PURGE",
	} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/", strings.NewReader(validBody))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
			assert.JSONEq(t, `{"ok":false,"error":"Method Not Allowed"}`, rec.Body.String())
		})
	}
	assert.Zero(t, svc.calls())
}

func TestInvalidJSON(t *testing.T) {
	t.Parallel()

	svc := &recorder{}
	h := intake.New(svc).Handle()

	for _, body := range []string{`{"customer":`, `[1,2`, `{} {}`} {
		rec := post(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"ok":false,"error":"Invalid JSON body"}`, rec.Body.String())
	}
	assert.Zero(t, svc.calls())
}

func TestBodyTooLarge(t *testing.T) {
	t.Parallel()

	svc := &recorder{}
	h := intake.New(svc, intake.WithMaxBodySize(16)).Handle()

	rec := post(t, h, validBody)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, svc.calls())
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "missing fields",
			err:    &intakesvc.MissingFieldsError{Fields: []string{"name", "city"}},
			status: http.StatusBadRequest,
			body:   `{"ok":false,"error":"Missing fields: name, city"}`,
		},
		{
			name:   "invalid fields",
			err:    &intakesvc.InvalidFieldsError{Fields: []string{"email"}},
			status: http.StatusBadRequest,
			body:   `{"ok":false,"error":"Invalid fields: email"}`,
		},
		{
			name:   "not configured",
			err:    intakesvc.ErrProviderNotConfigured,
			status: http.StatusInternalServerError,
			body:   `{"ok":false,"error":"email provider not configured"}`,
		},
		{
			name:   "provider rejected",
			err:    &intakesvc.DispatchError{Provider: "Mailgun", StatusCode: 401, Body: "Forbidden"},
			status: http.StatusBadGateway,
			body:   `{"ok":false,"error":"Mailgun 401"}`,
		},
		{
			name:   "provider unreachable",
			err:    &intakesvc.DispatchError{Provider: "Mailgun", Err: errors.New("dial tcp: timeout")},
			status: http.StatusBadGateway,
			body:   `{"ok":false,"error":"Mailgun unreachable"}`,
		},
		{
			name:   "unexpected",
			err:    errors.New("template exploded"),
			status: http.StatusInternalServerError,
			body:   `{"ok":false,"error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := post(t, intake.New(&recorder{err: tt.err}).Handle(), validBody)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestPanicBecomesInternalError(t *testing.T) {
	t.Parallel()

	rec := post(t, intake.New(&recorder{pan: "boom"}).Handle(), validBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"ok":false,"error":"internal error"}`, rec.Body.String())
}

func TestRateLimited(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	limiter, err := ratelimit.New(
		ratelimit.Config{PerMinute: 1, Burst: 1},
		ratelimit.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	svc := &recorder{}
	h := intake.New(svc, intake.WithLimiter(limiter)).Handle()

	first := post(t, h, validBody)
	assert.Equal(t, http.StatusOK, first.Code)

	second := post(t, h, `{"customer":`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.JSONEq(t, `{"ok":false,"error":"Too Many Requests"}`, second.Body.String())
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	assert.Equal(t, 1, svc.calls())
}

func TestWithIntakeService(t *testing.T) {
	t.Parallel()

	svc, err := intakesvc.New(intakesvc.Config{To: "ventas@voltdrive.mx"}, nil)
	require.NoError(t, err)
	h := intake.New(svc).Handle()

	t.Run("empty body lists every required field", func(t *testing.T) {
		rec := post(t, h, ``)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t,
			`{"ok":false,"error":"Missing fields: name, email, phone, type, units, city, country"}`,
			rec.Body.String())
	})

	t.Run("null and blank values count as missing", func(t *testing.T) {
		rec := post(t, h, `{"customer":{"name":null,"email":"ana@x.mx","phone":"   ","type":"Compra","units":0,"city":"CDMX","country":"Panamá"}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"ok":false,"error":"Missing fields: name, phone, units"}`, rec.Body.String())
	})

	t.Run("complete request without provider", func(t *testing.T) {
		rec := post(t, h, validBody)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"ok":false,"error":"email provider not configured"}`, rec.Body.String())
	})
}
