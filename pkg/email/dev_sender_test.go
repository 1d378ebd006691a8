package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanquantic/voltdrive/pkg/email"
)

func TestDevSender_Send(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "emails")
	s := email.NewDevSender(dir)
	assert.Equal(t, "DevSender", s.Name())

	msg := testMessage()
	msg.Tag = "Vendor Notification"
	resp, err := s.Send(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, resp.OK())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	var htmlFile, jsonFile string
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.Name(), resp.Body))
		assert.Contains(t, e.Name(), "vendor_notification")
		switch filepath.Ext(e.Name()) {
		case ".html":
			htmlFile = filepath.Join(dir, e.Name())
		case ".json":
			jsonFile = filepath.Join(dir, e.Name())
		}
	}

	html, err := os.ReadFile(htmlFile)
	require.NoError(t, err)
	assert.Equal(t, msg.HTML, string(html))

	raw, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	var meta map[string]string
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, msg.To, meta["to"])
	assert.Equal(t, msg.Subject, meta["subject"])
	assert.Equal(t, "Vendor Notification", meta["tag"])
}

func TestDevSender_DistinctFilesPerCall(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := email.NewDevSender(dir)
	for range 3 {
		_, err := s.Send(context.Background(), testMessage())
		require.NoError(t, err)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 9)
}

func TestDevSender_InvalidMessage(t *testing.T) {
	t.Parallel()

	_, err := email.NewDevSender(t.TempDir()).Send(context.Background(), email.Message{})
	assert.ErrorIs(t, err, email.ErrInvalidMessage)
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      email.Config
		wantName string
		wantErr  error
	}{
		{name: "mailgun", cfg: email.Config{Provider: email.ProviderMailgun, MailgunDomain: "mg.example.com", MailgunAPIKey: "k"}, wantName: "Mailgun"},
		{name: "default provider is mailgun", cfg: email.Config{MailgunDomain: "mg.example.com", MailgunAPIKey: "k"}, wantName: "Mailgun"},
		{name: "mailgun without credentials", cfg: email.Config{Provider: email.ProviderMailgun}, wantErr: email.ErrNotConfigured},
		{name: "postmark", cfg: email.Config{Provider: email.ProviderPostmark, PostmarkServerToken: "s", PostmarkAccountToken: "a"}, wantName: "Postmark"},
		{name: "postmark without tokens", cfg: email.Config{Provider: email.ProviderPostmark}, wantErr: email.ErrNotConfigured},
		{name: "dev", cfg: email.Config{Provider: email.ProviderDev, DevDir: "./tmp"}, wantName: "DevSender"},
		{name: "unknown", cfg: email.Config{Provider: "smtp"}, wantErr: email.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := email.NewSender(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, s.Name())
		})
	}
}
