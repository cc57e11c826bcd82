package email

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"go-interview-scheduler/config"
)

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	tmpl      *template.Template
}

// InterviewEmailData holds the data for interview notification emails
type InterviewEmailData struct {
	RecipientEmail string
	Subject        string
	Message        string
	Category       string
	Details        map[string]string
}

// NewEmailService creates a new email service with Brevo SMTP configuration
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		tmpl:      template.Must(template.New("interview").Parse(interviewEmailTemplate)),
	}
}

// interviewEmailTemplate is the HTML template for interview notifications
const interviewEmailTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0066cc; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 10px; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #0066cc; margin-bottom: 15px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>{{.Subject}}</h1>
        </div>
        <div class="content">
            <div class="message-box">{{.Message}}</div>
            {{range $label, $value := .Details}}
            <div class="field">
                <span class="label">{{$label}}:</span> {{$value}}
            </div>
            {{end}}
        </div>
        <div class="footer">
            <p>You receive this email because you take part in an interview ({{.Category}}).</p>
        </div>
    </div>
</body>
</html>`

// SendInterviewEmail renders and sends one interview notification
func (s *EmailService) SendInterviewEmail(data InterviewEmailData) error {
	msg, err := s.BuildMessage(data)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := net.JoinHostPort(s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{data.RecipientEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// BuildMessage renders the MIME message for data without sending it.
func (s *EmailService) BuildMessage(data InterviewEmailData) ([]byte, error) {
	if data.RecipientEmail == "" {
		return nil, fmt.Errorf("recipient email is empty")
	}
	data.Subject = headerValue(data.Subject)

	var body bytes.Buffer
	if err := s.tmpl.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", headerValue(s.fromEmail))
	fmt.Fprintf(&msg, "To: %s\r\n", headerValue(data.RecipientEmail))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", data.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

// headerValue strips line breaks so user-supplied text cannot add headers.
func headerValue(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
