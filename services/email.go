package services

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
	"github.com/pocketbase/pocketbase/core"
)

// EmailConfig holds the SMTP settings read from the company settings
// singleton.
type EmailConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
	SSL      bool
}

// EmailConfigStatus reports which SMTP fields are configured. The send
// action is blocked while FullyConfigured is false; an unconfigured mailer
// must be user-visible, not discovered through a failed send.
type EmailConfigStatus struct {
	ServerConfigured   bool `json:"mail_server_configured"`
	UsernameConfigured bool `json:"mail_username_configured"`
	PasswordConfigured bool `json:"mail_password_configured"`
	FromConfigured     bool `json:"mail_from_configured"`
	FullyConfigured    bool `json:"fully_configured"`
}

// ErrEmailNotConfigured is returned when a send is attempted while the SMTP
// settings are incomplete.
var ErrEmailNotConfigured = errors.New("email is not configured")

// EmailConfigFromSettings extracts the SMTP configuration from the company
// settings record.
func EmailConfigFromSettings(settings *core.Record) EmailConfig {
	return EmailConfig{
		Server:   settings.GetString("mail_server"),
		Port:     settings.GetInt("mail_port"),
		Username: settings.GetString("mail_username"),
		Password: settings.GetString("mail_password"),
		From:     settings.GetString("mail_from"),
		FromName: settings.GetString("mail_from_name"),
		TLS:      settings.GetBool("mail_tls"),
		SSL:      settings.GetBool("mail_ssl"),
	}
}

// Status probes the configuration without touching the network.
func (c EmailConfig) Status() EmailConfigStatus {
	s := EmailConfigStatus{
		ServerConfigured:   c.Server != "",
		UsernameConfigured: c.Username != "",
		PasswordConfigured: c.Password != "",
		FromConfigured:     c.From != "",
	}
	s.FullyConfigured = s.ServerConfigured && s.UsernameConfigured && s.PasswordConfigured && s.FromConfigured
	return s
}

// quotationEmailTemplate is the HTML body sent with a quotation. Figures
// are pre-formatted by the caller from the unrounded Totals.
var quotationEmailTemplate = template.Must(template.New("quotation_email").Parse(`<!doctype html>
<html>
<body style="margin:0;padding:24px;font-family:Arial,Helvetica,sans-serif;color:#1f2937;">
  <div style="max-width:640px;margin:0 auto;">
    <h2 style="color:#111827;">{{.CompanyName}}</h2>
    <p>Dear {{.CustomerName}},</p>
    <p>Please find attached our quotation <strong>{{.Number}}</strong>{{if .ValidUntil}}, valid until {{.ValidUntil}}{{end}}.</p>
    <table style="border-collapse:collapse;margin:16px 0;">
      <tr>
        <td style="padding:4px 16px 4px 0;color:#6b7280;">Subtotal</td>
        <td style="padding:4px 0;text-align:right;">{{.Subtotal}}</td>
      </tr>
      {{if .Discount}}<tr>
        <td style="padding:4px 16px 4px 0;color:#6b7280;">Discount</td>
        <td style="padding:4px 0;text-align:right;">-{{.Discount}}</td>
      </tr>{{end}}
      <tr>
        <td style="padding:4px 16px 4px 0;color:#6b7280;">VAT ({{.VATRate}})</td>
        <td style="padding:4px 0;text-align:right;">{{.VATAmount}}</td>
      </tr>
      <tr>
        <td style="padding:8px 16px 8px 0;font-weight:bold;border-top:1px solid #e5e7eb;">Total</td>
        <td style="padding:8px 0;font-weight:bold;text-align:right;border-top:1px solid #e5e7eb;">{{.Total}}</td>
      </tr>
    </table>
    {{if .Notes}}<p style="color:#6b7280;">{{.Notes}}</p>{{end}}
    <p>Kind regards,<br>{{.CompanyName}}</p>
  </div>
</body>
</html>`))

type quotationEmailData struct {
	CompanyName  string
	CustomerName string
	Number       string
	ValidUntil   string
	Subtotal     string
	Discount     string
	VATRate      string
	VATAmount    string
	Total        string
	Notes        string
}

// BuildQuotationEmailBody renders the HTML body from the same document
// bundle the PDF uses, so both channels show identical figures.
func BuildQuotationEmailBody(data *QuoteDocumentData) (string, error) {
	payload := quotationEmailData{
		CompanyName:  data.CompanyName,
		CustomerName: data.CustomerName,
		Number:       data.Number,
		ValidUntil:   data.ValidUntil,
		Subtotal:     FormatEUR(data.Totals.Subtotal),
		VATRate:      FormatPercent(data.Totals.VATRate),
		VATAmount:    FormatEUR(data.Totals.VATAmount),
		Total:        FormatEUR(data.Totals.Total),
		Notes:        data.Notes,
	}
	if data.DiscountType != DiscountNone && data.Totals.DiscountAmount != 0 {
		payload.Discount = FormatEUR(data.Totals.DiscountAmount)
	}

	var buf bytes.Buffer
	if err := quotationEmailTemplate.Execute(&buf, payload); err != nil {
		return "", fmt.Errorf("render email body: %w", err)
	}
	return buf.String(), nil
}

// SendQuotationEmail mails the rendered quotation to the recipient with the
// PDF attached. The configuration is probed first; an incomplete setup
// fails fast with ErrEmailNotConfigured.
func SendQuotationEmail(cfg EmailConfig, recipient string, data *QuoteDocumentData, pdf []byte) error {
	if !cfg.Status().FullyConfigured {
		return ErrEmailNotConfigured
	}

	body, err := BuildQuotationEmailBody(data)
	if err != nil {
		return err
	}

	mail, err := newMail(cfg)
	if err != nil {
		return err
	}
	mail.To(recipient)
	mail.Subject(fmt.Sprintf("Quotation %s from %s", data.Number, data.CompanyName))
	mail.HTML().Set(body)
	if len(pdf) > 0 {
		mail.Attach(fmt.Sprintf("%s.pdf", safeFileName(data.Number)), bytes.NewReader(pdf))
	}

	if err := mail.Send(); err != nil {
		return fmt.Errorf("send quotation email: %w", err)
	}
	return nil
}

// SendTestEmail sends a short plain message to verify the configuration.
func SendTestEmail(cfg EmailConfig, recipient string) error {
	if !cfg.Status().FullyConfigured {
		return ErrEmailNotConfigured
	}

	mail, err := newMail(cfg)
	if err != nil {
		return err
	}
	mail.To(recipient)
	mail.Subject("Test email")
	mail.Plain().Set("This is a test email confirming your SMTP configuration works.")

	if err := mail.Send(); err != nil {
		return fmt.Errorf("send test email: %w", err)
	}
	return nil
}

// newMail builds a mailyak sender for the configuration. SSL selects
// implicit TLS; otherwise STARTTLS is negotiated when offered.
func newMail(cfg EmailConfig) (*mailyak.MailYak, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Server)

	var mail *mailyak.MailYak
	if cfg.SSL {
		var err error
		mail, err = mailyak.NewWithTLS(addr, auth, &tls.Config{ServerName: cfg.Server})
		if err != nil {
			return nil, fmt.Errorf("connect smtp: %w", err)
		}
	} else {
		mail = mailyak.New(addr, auth)
	}

	mail.From(cfg.From)
	if cfg.FromName != "" {
		mail.FromName(cfg.FromName)
	}
	return mail, nil
}

// safeFileName keeps quote numbers usable as attachment names
// (QUO2026/0004 → QUO2026-0004).
func safeFileName(number string) string {
	out := []rune(number)
	for i, r := range out {
		if r == '/' || r == '\\' || r == ' ' {
			out[i] = '-'
		}
	}
	return string(out)
}
