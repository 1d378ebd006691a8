// Package email sends transactional messages through a pluggable provider.
//
// Sender is the provider seam. Three implementations ship with the package:
//   - MailgunClient posts form-encoded messages to the Mailgun v3 API with
//     Basic authentication as the "api" principal.
//   - PostmarkSender adapts github.com/mrz1836/postmark.
//   - DevSender writes each message as HTML, text and JSON files for local work.
//
// Senders return the provider's answer as a Response and reserve the error
// return for transport failures, so callers decide how a non-2xx answer is
// classified:
//
//	resp, err := sender.Send(ctx, email.Message{
//	    From:    "Cotizador <cotizador@mg.example.com>",
//	    To:      "ventas@example.com",
//	    Subject: "Nueva solicitud",
//	    HTML:    html,
//	    Text:    text,
//	})
//	switch {
//	case err != nil:
//	    // DNS, timeout, reset
//	case !resp.OK():
//	    // provider rejected: resp.StatusCode, resp.Body
//	}
//
// NewSender picks the implementation from Config. Missing credentials yield
// ErrNotConfigured so the caller can keep running and report the condition
// per request. None of the senders retry, throttle or cache.
//
// HTML bodies are usually templ components rendered with templates.Render.
package email
