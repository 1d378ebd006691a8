package intake

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/alanquantic/voltdrive/pkg/email"
	"github.com/alanquantic/voltdrive/pkg/email/templates"
	"github.com/alanquantic/voltdrive/svc/quote"
)

const (
	ackSubject = "Hemos recibido tu solicitud — Volt Drive"
	emptyValue = "—"

	tagVendor = "quote-vendor"
	tagAck    = "quote-ack"
)

const (
	fontStack = "ui-sans-serif,system-ui,-apple-system,Segoe UI,Roboto,Ubuntu,Helvetica,Arial"
	cellKey   = "padding:6px 10px;background:#f1f5f9;border:1px solid #e2e8f0"
	cellValue = "padding:6px 10px;border:1px solid #e2e8f0"
)

type row struct {
	label string
	value string
}

func vendorSubject(c quote.Lead) string {
	return fmt.Sprintf("Nueva solicitud — %s • %s unidad(es) • %s, %s",
		c.Type.String(), c.Units.String(), c.City.String(), c.Country.String())
}

func joinOrEmpty(values []string) string {
	if len(values) == 0 {
		return emptyValue
	}
	return strings.Join(values, ", ")
}

func customerRows(c quote.Lead) []row {
	return []row{
		{"Nombre", c.Name.String()},
		{"Email", c.Email.String()},
		{"Teléfono", c.Phone.String()},
		{"Intención", c.Type.String()},
		{"Unidades", c.Units.String()},
		{"Ciudad", c.City.String()},
		{"País", c.Country.String()},
	}
}

func configurationRows(cfg quote.Configuration) []row {
	return []row{
		{"Modelo", cfg.Model.String()},
		{"Versión", cfg.Version.String()},
		{"Color", cfg.Color.String()},
		{"Color de Asientos", cfg.Seats.String()},
		{"Techo", cfg.Roof.String()},
		{"Paquetes", joinOrEmpty(cfg.Packages)},
		{"Accesorios", joinOrEmpty(cfg.SelectedAccessories)},
	}
}

func writeTable(w io.Writer, rows []row) error {
	if _, err := io.WriteString(w, `<table style="border-collapse:collapse;min-width:520px"><tbody>`); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, `<tr><td style="%s"><strong>%s</strong></td><td style="%s">%s</td></tr>`,
			cellKey, templ.EscapeString(r.label), cellValue, templ.EscapeString(r.value)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</tbody></table>`)
	return err
}

// vendorHTML is the notification body with the customer and configuration tables.
func vendorHTML(req quote.Request, stamp string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<div style="font-family:%s;line-height:1.5;color:#0f172a">`+
				`<h2 style="margin:0 0 12px 0">Volt Drive — Solicitud de cotización</h2>`+
				`<p style="margin:0 0 16px 0;color:#334155">Fecha: %s</p>`+
				`<h3 style="margin:16px 0 8px 0">Datos del cliente</h3>`,
			fontStack, templ.EscapeString(stamp)); err != nil {
			return err
		}
		if err := writeTable(w, customerRows(req.Customer)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<h3 style="margin:16px 0 8px 0">Configuración</h3>`); err != nil {
			return err
		}
		if err := writeTable(w, configurationRows(req.Configuration)); err != nil {
			return err
		}
		_, err := io.WriteString(w,
			`<p style="margin-top:16px;color:#64748b;font-size:12px">Este mensaje fue generado automáticamente por el cotizador del sitio.</p></div>`)
		return err
	})
}

// vendorText is the one-line plain-text fallback.
func vendorText(req quote.Request) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		c, cfg := req.Customer, req.Configuration
		_, err := fmt.Fprintf(w, "Cliente: %s <%s> (%s) | %s %s unidades en %s, %s. Config: %s/%s %s asientos %s.",
			c.Name.String(), c.Email.String(), c.Phone.String(),
			c.Type.String(), c.Units.String(), c.City.String(), c.Country.String(),
			cfg.Model.String(), cfg.Version.String(), cfg.Color.String(), cfg.Seats.String())
		return err
	})
}

// ackHTML is the short confirmation sent to the customer.
func ackHTML(cfg quote.Configuration, siteBase string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div style="font-family:%s;line-height:1.6;color:#0f172a">`+
				`<div style="padding:16px 0 8px 0"><img src="%s" alt="Volt Drive" style="height:36px"/></div>`+
				`<h2 style="margin:0 0 12px 0">¡Gracias por tu interés!</h2>`+
				`<p style="margin:0 0 10px 0;color:#334155">Hemos recibido tu solicitud de cotización y nuestro equipo te contactará a la brevedad.</p>`+
				`<div style="margin-top:12px;padding:12px;border:1px solid #e2e8f0;border-radius:10px;background:#f8fafc">`+
				`<div style="font-weight:600;margin-bottom:6px">Resumen</div>`+
				`<div>Modelo: <strong>%s</strong></div>`+
				`<div>Color: <strong>%s</strong> • Asientos: <strong>%s</strong></div>`+
				`</div>`+
				`<p style="margin-top:12px;color:#64748b;font-size:12px">Si no solicitaste esta información, por favor ignora este correo.</p>`+
				`</div>`,
			fontStack,
			templ.EscapeString(logoURL(siteBase)),
			templ.EscapeString(cfg.Model.String()),
			templ.EscapeString(cfg.Color.Or(emptyValue)),
			templ.EscapeString(cfg.Seats.Or(emptyValue)),
		)
		return err
	})
}

func ackText(cfg quote.Configuration) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			"¡Gracias por tu interés! Hemos recibido tu solicitud de cotización y nuestro equipo te contactará a la brevedad. Modelo: %s. Color: %s • Asientos: %s.",
			cfg.Model.String(), cfg.Color.Or(emptyValue), cfg.Seats.Or(emptyValue))
		return err
	})
}

func logoURL(siteBase string) string {
	return strings.TrimRight(siteBase, "/") + "/assets/brand/logo.png"
}

func (s *Service) vendorMessage(ctx context.Context, req quote.Request) (email.Message, error) {
	stamp := formatTimestamp(s.now().In(s.loc))
	html, text, err := templates.RenderPair(ctx, vendorHTML(req, stamp), vendorText(req))
	if err != nil {
		return email.Message{}, fmt.Errorf("render vendor notification: %w", err)
	}
	return email.Message{
		From:    s.cfg.From,
		To:      s.cfg.To,
		Subject: vendorSubject(req.Customer),
		HTML:    html,
		Text:    text,
		Tag:     tagVendor,
	}, nil
}

func (s *Service) ackMessage(ctx context.Context, req quote.Request) (email.Message, error) {
	html, text, err := templates.RenderPair(ctx, ackHTML(req.Configuration, s.cfg.SiteBaseURL), ackText(req.Configuration))
	if err != nil {
		return email.Message{}, fmt.Errorf("render acknowledgement: %w", err)
	}
	return email.Message{
		From:    s.cfg.From,
		To:      req.Customer.Email.String(),
		Subject: ackSubject,
		HTML:    html,
		Text:    text,
		Tag:     tagAck,
	}, nil
}
