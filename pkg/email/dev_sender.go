package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// DevSender writes messages to disk instead of sending them. Each call
// produces <stamp>_<tag-or-subject>.{html,txt,json} in dir.
type DevSender struct {
	dir string
	now func() time.Time
	seq atomic.Uint64
}

// NewDevSender creates a sender writing under dir, created on demand.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

func (d *DevSender) Name() string { return "DevSender" }

type devMetadata struct {
	Timestamp string `json:"timestamp"`
	From      string `json:"from"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

// Send always answers 200 once the files are written.
func (d *DevSender) Send(_ context.Context, msg Message) (Response, error) {
	if err := msg.Validate(); err != nil {
		return Response{}, err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return Response{}, errors.Join(ErrFailedToSendEmail, err)
	}

	now := d.now()
	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	base := fmt.Sprintf("%s_%03d_%s", now.Format("2006_01_02_150405"), d.seq.Add(1)%1000, sanitizeFilename(identifier))

	meta, err := json.MarshalIndent(devMetadata{
		Timestamp: now.Format(time.RFC3339),
		From:      msg.From,
		To:        msg.To,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}, "", "  ")
	if err != nil {
		return Response{}, errors.Join(ErrFailedToSendEmail, err)
	}

	files := map[string][]byte{
		base + ".html": []byte(msg.HTML),
		base + ".txt":  []byte(msg.Text),
		base + ".json": meta,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
			return Response{}, errors.Join(ErrFailedToSendEmail, err)
		}
	}

	return Response{StatusCode: http.StatusOK, Body: base}, nil
}

var unsafeFilenameRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameRegex.ReplaceAllString(s, "")

	const maxLength = 80
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
