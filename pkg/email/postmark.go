package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mrz1836/postmark"
)

type postmarkAPI interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkSender delivers through Postmark's transactional API.
// Opens and HTML link clicks are tracked.
type PostmarkSender struct {
	client postmarkAPI
}

// NewPostmarkSender returns ErrNotConfigured unless both tokens are set.
func NewPostmarkSender(serverToken, accountToken string) (*PostmarkSender, error) {
	if strings.TrimSpace(serverToken) == "" || strings.TrimSpace(accountToken) == "" {
		return nil, fmt.Errorf("%w: POSTMARK_SERVER_TOKEN and POSTMARK_ACCOUNT_TOKEN are required", ErrNotConfigured)
	}
	return &PostmarkSender{client: postmark.NewClient(serverToken, accountToken)}, nil
}

func (s *PostmarkSender) Name() string { return "Postmark" }

// Send maps a Postmark API error code to a 422 Response carrying the code
// and message, so it is handled like any other provider rejection.
func (s *PostmarkSender) Send(ctx context.Context, msg Message) (Response, error) {
	if err := msg.Validate(); err != nil {
		return Response{}, err
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:       msg.From,
		To:         msg.To,
		Subject:    msg.Subject,
		Tag:        msg.Tag,
		HTMLBody:   msg.HTML,
		TextBody:   msg.Text,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return Response{}, errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return Response{
			StatusCode: http.StatusUnprocessableEntity,
			Body:       fmt.Sprintf("%d - %s", resp.ErrorCode, resp.Message),
		}, nil
	}
	return Response{StatusCode: http.StatusOK, Body: resp.MessageID}, nil
}
