package email

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// Attachment is an in-memory file attached to a message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Sender abstracts the SMTP transport so services can be tested without a server.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService sends notification emails over SMTP
type EmailService struct {
	config EmailConfig
	sender Sender
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{
		config: config,
		sender: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword),
	}
}

// NewEmailServiceWithSender creates an email service that delivers through sender.
func NewEmailServiceWithSender(config EmailConfig, sender Sender) *EmailService {
	return &EmailService{config: config, sender: sender}
}

// SessionLine is one row of the session summary table.
type SessionLine struct {
	Label string
	Value string
}

// SessionSummary is the content of an end-of-session email.
type SessionSummary struct {
	StoreName   string
	Branch      string
	Cashier     string
	OpenedAt    string
	ClosedAt    string
	Duration    string
	SessionSale string
	OrderCount  int
	Payments    []SessionLine
}

// SendSessionSummary emails the summary of a closed cashier session to recipients.
func (s *EmailService) SendSessionSummary(recipients []string, summary SessionSummary, attachments ...Attachment) error {
	if len(recipients) == 0 {
		return nil
	}

	html, err := render(sessionSummaryTemplate, summary)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("%s - session closed by %s", summary.StoreName, summary.Cashier)
	return s.send(recipients, subject, html, attachments)
}

func (s *EmailService) send(to []string, subject, html string, attachments []Attachment) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	for _, a := range attachments {
		content := a.Content
		msg.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	if err := s.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var sessionSummaryTemplate = template.Must(template.New("session_summary").Parse(`
<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Session summary</title></head>
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; background-color: #f4f7fa; padding: 24px;">
  <h2 style="margin: 0 0 8px;">{{.StoreName}}{{if .Branch}} ({{.Branch}}){{end}}</h2>
  <p style="color: #555;">Cashier session closed by <strong>{{.Cashier}}</strong>.</p>
  <table style="border-collapse: collapse; min-width: 320px;">
    <tr><td style="padding: 4px 12px 4px 0;">Opened</td><td>{{.OpenedAt}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;">Closed</td><td>{{.ClosedAt}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;">Duration</td><td>{{.Duration}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;">Orders</td><td>{{.OrderCount}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Session sales</strong></td><td><strong>{{.SessionSale}}</strong></td></tr>
  </table>
  {{if .Payments}}
  <h3 style="margin: 20px 0 8px;">By payment method</h3>
  <table style="border-collapse: collapse; min-width: 320px;">
    {{range .Payments}}<tr><td style="padding: 4px 12px 4px 0;">{{.Label}}</td><td>{{.Value}}</td></tr>{{end}}
  </table>
  {{end}}
</body>
</html>
`))
