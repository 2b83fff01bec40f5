package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"courtwatch/internal/entities"
)

// EmailNotifierConfig carries SendGrid credentials and sender identity.
type EmailNotifierConfig struct {
	APIKey       string
	FromEmail    string
	FromName     string
	TemplatePath string
}

// EmailNotifier renders the availability digest into HTML plus plain text and
// delivers it per subscriber through SendGrid.
type EmailNotifier struct {
	cfg    EmailNotifierConfig
	tmpl   *template.Template
	logger *zap.Logger
}

func NewEmailNotifier(cfg EmailNotifierConfig, logger *zap.Logger) (*EmailNotifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid API key not configured")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("sendgrid from address not configured")
	}
	tmpl, err := template.ParseFiles(cfg.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("parsing email template %s: %w", cfg.TemplatePath, err)
	}
	return &EmailNotifier{cfg: cfg, tmpl: tmpl, logger: logger}, nil
}

func (n *EmailNotifier) Notify(data entities.AvailabilityEmailData, recipients []entities.Subscriber) error {
	var htmlBody bytes.Buffer
	if err := n.tmpl.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("rendering availability email: %w", err)
	}
	textBody := PlainTextDigest(data)
	subject := "Court Availability Update"

	client := sendgrid.NewSendClient(n.cfg.APIKey)
	from := mail.NewEmail(n.cfg.FromName, n.cfg.FromEmail)

	var failed int
	for _, sub := range recipients {
		message := mail.NewSingleEmail(from, subject, mail.NewEmail("", sub.Email), textBody, htmlBody.String())
		response, err := client.Send(message)
		if err != nil {
			n.logger.Error("sendgrid send failed", zap.String("to", sub.Email), zap.Error(err))
			failed++
			continue
		}
		if response.StatusCode < 200 || response.StatusCode >= 300 {
			n.logger.Error("sendgrid returned non-success status",
				zap.String("to", sub.Email),
				zap.Int("status", response.StatusCode),
				zap.String("body", response.Body))
			failed++
			continue
		}
		n.logger.Info("availability email sent", zap.String("to", sub.Email), zap.Int("status", response.StatusCode))
	}
	if failed > 0 && failed == len(recipients) {
		return fmt.Errorf("email delivery failed for all %d recipients", failed)
	}
	return nil
}

// PlainTextDigest renders the text alternative of the availability email.
func PlainTextDigest(data entities.AvailabilityEmailData) string {
	var b strings.Builder
	b.WriteString("Available Court Times:\n\n")
	for _, day := range data.Days {
		fmt.Fprintf(&b, "%s:\n", day.Label)
		for _, court := range day.Courts {
			fmt.Fprintf(&b, "  %s: %s\n", court.Court, strings.Join(court.Available, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SMSNotifierConfig carries Twilio credentials and the alert destination.
type SMSNotifierConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string
}

// SMSNotifier sends a short heads-up to a configured phone number when new
// availability appears. Details stay in the email; the SMS just points at it.
type SMSNotifier struct {
	cfg    SMSNotifierConfig
	client *twilio.RestClient
	logger *zap.Logger
}

func NewSMSNotifier(cfg SMSNotifierConfig, logger *zap.Logger) (*SMSNotifier, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" || cfg.ToNumber == "" {
		return nil, fmt.Errorf("twilio credentials not fully configured")
	}
	if !strings.HasPrefix(cfg.ToNumber, "+") {
		logger.Warn("alert phone number is not in E.164 format", zap.String("to", cfg.ToNumber))
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSNotifier{cfg: cfg, client: client, logger: logger}, nil
}

func (n *SMSNotifier) Notify(data entities.AvailabilityEmailData, _ []entities.Subscriber) error {
	var slots int
	for _, day := range data.Days {
		for _, court := range day.Courts {
			slots += len(court.Available)
		}
	}
	body := fmt.Sprintf("Court Watch: %d open slots across %d days. Details in your email.", slots, len(data.Days))

	params := &openapi.CreateMessageParams{}
	params.SetTo(n.cfg.ToNumber)
	params.SetFrom(n.cfg.FromNumber)
	params.SetBody(body)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("sending availability SMS: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		n.logger.Info("availability SMS sent", zap.String("sid", *resp.Sid))
	}
	return nil
}
