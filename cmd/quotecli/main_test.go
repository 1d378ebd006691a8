package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanquantic/voltdrive/svc/catalog"
	"github.com/alanquantic/voltdrive/svc/quote"
	"github.com/alanquantic/voltdrive/svc/quoteform"
)

var leadArgs = []string{
	"-name", "Ana Pérez",
	"-email", "ana@example.com",
	"-phone", "55 1234 5678",
	"-city", "Monterrey",
}

func TestRun_ShareLink(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	err := run(context.Background(),
		[]string{"-model", "halcon", "-color", "Azul", "-share-base", "https://voltdrive.mx/"},
		&out, &errOut)
	require.NoError(t, err)
	assert.Equal(t, "https://voltdrive.mx/#/halcon?model=halcon&color=Azul&seats=\n", out.String())
}

func TestRun_Submits(t *testing.T) {
	t.Parallel()

	var got quote.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, quoteform.QuotePath, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	args := append([]string{
		"-api", srv.URL,
		"-model", "aurora",
		"-color", "Rojo",
		"-seats", "Gris",
		"-packages", "Confort",
		"-accessories", "SB-LED",
	}, leadArgs...)

	var out, errOut bytes.Buffer
	require.NoError(t, run(context.Background(), args, &out, &errOut))

	assert.Contains(t, out.String(), "Aurora 72 • Rojo • Gris")
	assert.Contains(t, out.String(), quoteform.MessageSent)

	assert.Equal(t, quote.Text("Ana Pérez"), got.Customer.Name)
	assert.Equal(t, quote.Text("Compra"), got.Customer.Type)
	assert.Equal(t, quote.Text("1"), got.Customer.Units)
	assert.Equal(t, quote.Text("México"), got.Customer.Country)
	assert.Equal(t, quote.Text("Aurora 72"), got.Configuration.Model)
	assert.Equal(t, []string{"Confort"}, got.Configuration.Packages)
	assert.Equal(t, []string{"SB-LED"}, got.Configuration.SelectedAccessories)
}

func TestRun_ServerRejects(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"ok":false,"error":"Mailgun 401"}`))
	}))
	t.Cleanup(srv.Close)

	var out, errOut bytes.Buffer
	err := run(context.Background(), append([]string{"-api", srv.URL}, leadArgs...), &out, &errOut)
	require.ErrorIs(t, err, quoteform.ErrRequestFailed)
	assert.Contains(t, out.String(), quoteform.MessageFailed)
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	err := run(context.Background(), append([]string{"-dry-run", "-model", "halcon", "-roof", "solar"}, leadArgs...), &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, out.String(), catalog.RoofSolar)
	assert.Contains(t, out.String(), `"model": "Hal`)
}

func TestRun_ReturnsWithLiveContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		var out, errOut bytes.Buffer
		done <- run(ctx, append([]string{"-dry-run", "-model", "aurora"}, leadArgs...), &out, &errOut)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.Fail(t, "run did not return while its context was still live")
	}
}

func TestRun_InvalidLead(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	err := run(context.Background(), []string{"-dry-run", "-email", "not-an-email"}, &out, &errOut)
	require.ErrorIs(t, err, quoteform.ErrInvalidLead)
	assert.Contains(t, errOut.String(), "-name: "+quoteform.MessageRequired)
	assert.Contains(t, errOut.String(), "-email: "+quoteform.MessageInvalidEmail)
	assert.NotContains(t, out.String(), `"customer"`)
}

func TestRun_RejectsUnknownChoices(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"unknown model":     {"-model", "tesla"},
		"color not offered": {"-model", "aurora", "-color", "Verde"},
		"solar on aurora":   {"-model", "aurora", "-roof", "solar"},
		"foreign accessory": {"-model", "aurora", "-accessories", "NFC-2"},
		"unknown package":   {"-model", "aurora", "-packages", "Solar"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var out, errOut bytes.Buffer
			err := run(context.Background(), append(args, "-dry-run"), &out, &errOut)
			require.Error(t, err)
			assert.False(t, strings.Contains(out.String(), `"customer"`))
		})
	}
}
