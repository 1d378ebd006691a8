package intake_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanquantic/voltdrive/pkg/email"
	"github.com/alanquantic/voltdrive/pkg/metrics"
	"github.com/alanquantic/voltdrive/svc/intake"
	"github.com/alanquantic/voltdrive/svc/quote"
)

type reply struct {
	resp  email.Response
	err   error
	panic bool
}

// fakeSender answers by message tag and records every call.
type fakeSender struct {
	mu      sync.Mutex
	replies map[string]reply
	sent    []email.Message
}

func newFakeSender() *fakeSender {
	return &fakeSender{replies: map[string]reply{}}
}

func (f *fakeSender) on(tag string, r reply) *fakeSender {
	f.replies[tag] = r
	return f
}

func (f *fakeSender) Name() string { return "Mailgun" }

func (f *fakeSender) Send(_ context.Context, msg email.Message) (email.Response, error) {
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	r, ok := f.replies[msg.Tag]
	f.mu.Unlock()

	if r.panic {
		panic("provider exploded")
	}
	if !ok {
		return email.Response{StatusCode: 200, Body: `{"id":"<1@mg>"}`}, nil
	}
	return r.resp, r.err
}

func (f *fakeSender) messages() []email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]email.Message(nil), f.sent...)
}

func testConfig() intake.Config {
	return intake.Config{
		To:               "contacto@voltdrive.mx",
		From:             intake.DefaultFrom("mg.voltdrive.mx"),
		SiteBaseURL:      "https://voltdrive.vercel.app/",
		Timezone:         "America/Mexico_City",
		StrictValidation: true,
	}
}

func newService(t *testing.T, cfg intake.Config, sender email.Sender, opts ...intake.Option) *intake.Service {
	t.Helper()
	svc, err := intake.New(cfg, sender, opts...)
	require.NoError(t, err)
	return svc
}

func anaRequest() quote.Request {
	return quote.Request{
		Customer: quote.Lead{
			Name:    "Ana García",
			Email:   "ana@example.com",
			Phone:   "5512345678",
			Type:    "Compra",
			Units:   "2",
			City:    "CDMX",
			Country: "México",
		},
		Configuration: quote.Configuration{
			Model:               "Aurora 72",
			Version:             "Rider (urbano)",
			Color:               "Azul",
			Seats:               "Gris",
			Roof:                "Estándar",
			Packages:            []string{"Tecnología"},
			SelectedAccessories: []string{"PS-12.3"},
		},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := intake.New(intake.Config{To: "a@b.co", Timezone: "Mars/Olympus"}, nil)
	require.ErrorIs(t, err, intake.ErrInvalidConfig)

	_, err = intake.New(intake.Config{}, nil)
	require.ErrorIs(t, err, intake.ErrInvalidConfig)

	svc, err := intake.New(intake.Config{To: "a@b.co"}, nil)
	require.NoError(t, err)
	assert.False(t, svc.Configured())
}

func TestDefaultFrom(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Cotizador Volt Drive <cotizador@mg.voltdrive.mx>", intake.DefaultFrom("mg.voltdrive.mx"))
	assert.Equal(t, "Cotizador Volt Drive <cotizador@mailer.ceosnew.media>", intake.DefaultFrom(""))
}

func TestSubmit_Success(t *testing.T) {
	t.Parallel()

	sender := newFakeSender()
	clock := func() time.Time { return time.Date(2026, 10, 14, 20, 30, 5, 0, time.UTC) }
	svc := newService(t, testConfig(), sender, intake.WithClock(clock))

	require.NoError(t, svc.Submit(context.Background(), anaRequest()))

	sent := sender.messages()
	require.Len(t, sent, 2)

	vendor := sent[0]
	assert.Equal(t, "Cotizador Volt Drive <cotizador@mg.voltdrive.mx>", vendor.From)
	assert.Equal(t, "contacto@voltdrive.mx", vendor.To)
	assert.Equal(t, "Nueva solicitud — Compra • 2 unidad(es) • CDMX, México", vendor.Subject)
	assert.Equal(t,
		"Cliente: Ana García <ana@example.com> (5512345678) | Compra 2 unidades en CDMX, México. Config: Aurora 72/Rider (urbano) Azul asientos Gris.",
		vendor.Text)
	for _, want := range []string{
		"Volt Drive — Solicitud de cotización",
		"Fecha: 14/10/2026, 2:30:05 p.m.",
		"<strong>Teléfono</strong></td><td style=\"padding:6px 10px;border:1px solid #e2e8f0\">5512345678</td>",
		"<strong>Color de Asientos</strong></td><td style=\"padding:6px 10px;border:1px solid #e2e8f0\">Gris</td>",
		">Tecnología</td>",
		">PS-12.3</td>",
		"Este mensaje fue generado automáticamente por el cotizador del sitio.",
	} {
		assert.Contains(t, vendor.HTML, want)
	}

	ack := sent[1]
	assert.Equal(t, vendor.From, ack.From)
	assert.Equal(t, "ana@example.com", ack.To)
	assert.Equal(t, "Hemos recibido tu solicitud — Volt Drive", ack.Subject)
	assert.Contains(t, ack.HTML, `src="https://voltdrive.vercel.app/assets/brand/logo.png"`)
	assert.Contains(t, ack.HTML, "¡Gracias por tu interés!")
	assert.Contains(t, ack.HTML, "Modelo: <strong>Aurora 72</strong>")
	assert.Contains(t, ack.HTML, "Color: <strong>Azul</strong> • Asientos: <strong>Gris</strong>")
	assert.NotContains(t, ack.HTML, "Fecha:")
}

func TestSubmit_EmptyListsAndMissingConfiguration(t *testing.T) {
	t.Parallel()

	sender := newFakeSender()
	svc := newService(t, testConfig(), sender)

	req := anaRequest()
	req.Configuration = quote.Configuration{}
	require.NoError(t, svc.Submit(context.Background(), req))

	sent := sender.messages()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].HTML, "<strong>Paquetes</strong></td><td style=\"padding:6px 10px;border:1px solid #e2e8f0\">—</td>")
	assert.Contains(t, sent[0].HTML, "<strong>Accesorios</strong></td><td style=\"padding:6px 10px;border:1px solid #e2e8f0\">—</td>")
	assert.Contains(t, sent[1].HTML, "Color: <strong>—</strong> • Asientos: <strong>—</strong>")
}

func TestSubmit_EscapesHTML(t *testing.T) {
	t.Parallel()

	sender := newFakeSender()
	svc := newService(t, testConfig(), sender)

	req := anaRequest()
	req.Customer.Name = `<script>alert("x")</script>`
	require.NoError(t, svc.Submit(context.Background(), req))

	html := sender.messages()[0].HTML
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestSubmit_MissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*quote.Lead)
		want   []string
	}{
		{name: "empty customer", mutate: func(l *quote.Lead) { *l = quote.Lead{} }, want: quote.RequiredFields},
		{name: "blank after trim", mutate: func(l *quote.Lead) { l.City = "  " }, want: []string{"city"}},
		{
			name: "canonical order",
			mutate: func(l *quote.Lead) {
				l.Country = ""
				l.Units = ""
				l.Email = ""
			},
			want: []string{"email", "units", "country"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := newFakeSender()
			svc := newService(t, testConfig(), sender)
			req := anaRequest()
			tt.mutate(&req.Customer)

			err := svc.Submit(context.Background(), req)
			var missing *intake.MissingFieldsError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.want, missing.Fields)
			assert.Equal(t, "Missing fields: "+strings.Join(tt.want, ", "), err.Error())
			assert.Empty(t, sender.messages())
		})
	}
}

func TestSubmit_StrictValidation(t *testing.T) {
	t.Parallel()

	req := anaRequest()
	req.Customer.Email = "not-an-email"
	req.Customer.Units = "0.5"

	sender := newFakeSender()
	err := newService(t, testConfig(), sender).Submit(context.Background(), req)
	var invalid *intake.InvalidFieldsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"email", "units"}, invalid.Fields)
	assert.Equal(t, "Invalid fields: email, units", err.Error())
	assert.Empty(t, sender.messages())

	tests := []struct {
		name   string
		mutate func(*quote.Lead)
		fields []string
	}{
		{
			name:   "intent outside the offered set",
			mutate: func(l *quote.Lead) { l.Type = "Trueque" },
			fields: []string{"type"},
		},
		{
			name:   "unsupported country",
			mutate: func(l *quote.Lead) { l.Country = "Chile" },
			fields: []string{"country"},
		},
		{
			name:   "over-long free text",
			mutate: func(l *quote.Lead) {
				l.Name = quote.Text(strings.Repeat("a", 121))
				l.Phone = quote.Text(strings.Repeat("5", 41))
				l.City = quote.Text(strings.Repeat("c", 121))
			},
			fields: []string{"name", "phone", "city"},
		},
		{
			name:   "intent and country are matched exactly",
			mutate: func(l *quote.Lead) {
				l.Type = "compra"
				l.Country = "Mexico"
			},
			fields: []string{"type", "country"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := anaRequest()
			tt.mutate(&req.Customer)
			sender := newFakeSender()
			err := newService(t, testConfig(), sender).Submit(context.Background(), req)
			var invalid *intake.InvalidFieldsError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.fields, invalid.Fields)
			assert.Empty(t, sender.messages())
		})
	}

	for _, in := range quote.Intents {
		req := anaRequest()
		req.Customer.Type = quote.Text(in)
		for _, country := range quote.Countries {
			req.Customer.Country = quote.Text(country)
			require.NoError(t, newService(t, testConfig(), newFakeSender()).Submit(context.Background(), req), "%s/%s", in, country)
		}
	}

	lax := testConfig()
	lax.StrictValidation = false
	sender = newFakeSender()
	require.NoError(t, newService(t, lax, sender).Submit(context.Background(), req))
	assert.Len(t, sender.messages(), 2)
}

func TestSubmit_NotConfigured(t *testing.T) {
	t.Parallel()

	svc := newService(t, testConfig(), nil)
	require.ErrorIs(t, svc.Submit(context.Background(), anaRequest()), intake.ErrProviderNotConfigured)
}

func TestSubmit_PrimaryFailureSkipsAck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		reply      reply
		wantStatus int
		wantPublic string
	}{
		{
			name:       "non-success status",
			reply:      reply{resp: email.Response{StatusCode: 401, Body: "Forbidden"}},
			wantStatus: 401,
			wantPublic: "Mailgun 401",
		},
		{
			name:       "transport error",
			reply:      reply{err: errors.Join(email.ErrFailedToSendEmail, errors.New("dial tcp: timeout"))},
			wantPublic: "Mailgun unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := newFakeSender().on("quote-vendor", tt.reply)
			err := newService(t, testConfig(), sender).Submit(context.Background(), anaRequest())

			require.ErrorIs(t, err, intake.ErrPrimaryDispatch)
			var de *intake.DispatchError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantStatus, de.StatusCode)
			assert.Equal(t, tt.wantPublic, de.Public())
			assert.Len(t, sender.messages(), 1, "acknowledgement never attempted")
		})
	}
}

func TestSubmit_AckFailureIsIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply reply
	}{
		{name: "non-success", reply: reply{resp: email.Response{StatusCode: 400, Body: "bad to"}}},
		{name: "transport error", reply: reply{err: email.ErrFailedToSendEmail}},
		{name: "panic", reply: reply{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := newFakeSender().on("quote-ack", tt.reply)
			require.NoError(t, newService(t, testConfig(), sender).Submit(context.Background(), anaRequest()))
			assert.Len(t, sender.messages(), 2)
		})
	}
}

func TestSubmit_Stages(t *testing.T) {
	t.Parallel()

	run := func(sender email.Sender, req quote.Request) []intake.Stage {
		var stages []intake.Stage
		svc := newService(t, testConfig(), sender, intake.WithStageObserver(func(_ context.Context, s intake.Stage) {
			stages = append(stages, s)
		}))
		_ = svc.Submit(context.Background(), req)
		return stages
	}

	assert.Equal(t, []intake.Stage{
		intake.StageFieldValidated,
		intake.StageConfigChecked,
		intake.StagePrimarySent,
		intake.StageAckAttempted,
		intake.StageResponded,
	}, run(newFakeSender().on("quote-ack", reply{err: errors.New("down")}), anaRequest()))

	assert.Equal(t, []intake.Stage{intake.StageResponded}, run(newFakeSender(), quote.Request{}))

	assert.Equal(t, []intake.Stage{intake.StageFieldValidated, intake.StageResponded}, run(nil, anaRequest()))

	assert.Equal(t, []intake.Stage{
		intake.StageFieldValidated,
		intake.StageConfigChecked,
		intake.StageResponded,
	}, run(newFakeSender().on("quote-vendor", reply{resp: email.Response{StatusCode: 500}}), anaRequest()))
}

func TestSubmit_Metrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	sender := newFakeSender().on("quote-ack", reply{resp: email.Response{StatusCode: 500}})
	svc := newService(t, testConfig(), sender, intake.WithMetrics(m))

	require.NoError(t, svc.Submit(context.Background(), anaRequest()))
	_ = svc.Submit(context.Background(), quote.Request{})

	expected := `
# HELP quote_requests_total Quote intake requests by outcome.
# TYPE quote_requests_total counter
quote_requests_total{outcome="missing_fields"} 1
quote_requests_total{outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "quote_requests_total"))

	expected = `
# HELP email_dispatch_total Outbound email sends by kind (vendor, ack) and outcome.
# TYPE email_dispatch_total counter
email_dispatch_total{kind="ack",outcome="rejected"} 1
email_dispatch_total{kind="vendor",outcome="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "email_dispatch_total"))
}

func TestSubmit_VendorPanicIsInternal(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	var stages []intake.Stage
	sender := newFakeSender().on("quote-vendor", reply{panic: true})
	svc := newService(t, testConfig(), sender,
		intake.WithMetrics(m),
		intake.WithStageObserver(func(_ context.Context, s intake.Stage) {
			stages = append(stages, s)
		}),
	)

	err := svc.Submit(context.Background(), anaRequest())
	require.ErrorIs(t, err, intake.ErrInternal)
	assert.Contains(t, err.Error(), "provider exploded")
	assert.Len(t, sender.messages(), 1, "acknowledgement is not attempted")

	assert.Equal(t, []intake.Stage{
		intake.StageFieldValidated,
		intake.StageConfigChecked,
		intake.StageResponded,
	}, stages)

	expected := `
# HELP quote_requests_total Quote intake requests by outcome.
# TYPE quote_requests_total counter
quote_requests_total{outcome="internal"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "quote_requests_total"))
}
