// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
)

// Email providers
const (
	ProviderLog    = "log"
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
)

// EmailService handles all email operations
type EmailService struct {
	config    *config.Config
	logger    logrus.FieldLogger
	templates map[string]*template.Template
	client    *http.Client
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, logger logrus.FieldLogger) *EmailService {
	service := &EmailService{
		config:    cfg,
		logger:    logger,
		templates: make(map[string]*template.Template),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for name, body := range bodyTemplates {
		service.templates[name] = template.Must(template.Must(template.New(name).Parse(layoutTemplate)).Parse(body))
	}

	return service
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	switch s.config.External.Email.Provider {
	case ProviderLog, "":
		s.logger.WithFields(logrus.Fields{
			"to":      email.To,
			"subject": email.Subject,
			"type":    email.Type,
		}).Info("Email delivery disabled, logging message")
		return nil
	case ProviderSMTP:
		return s.sendSMTPEmail(email)
	case ProviderResend:
		return s.sendResendEmail(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendWelcomeEmail greets a newly registered customer
func (s *EmailService) SendWelcomeEmail(ctx context.Context, userEmail, userName string) error {
	data := WelcomeEmailData{
		EmailTemplateData: s.base(userName, userEmail),
		OrdersURL:         s.config.App.BaseURL + "/orders",
	}

	htmlContent, err := s.renderTemplate("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome email template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{userEmail},
		Subject:     fmt.Sprintf("Welcome to %s!", s.config.External.Email.FromName),
		HTMLContent: htmlContent,
		Type:        EmailTypeWelcome,
	})
}

// SendOrderConfirmationEmail sends the order receipt to the customer
func (s *EmailService) SendOrderConfirmationEmail(ctx context.Context, data OrderConfirmationData) error {
	htmlContent, err := s.renderTemplate("order_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render order confirmation template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Order Confirmation - %s", data.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
		Data:        map[string]interface{}{"order_number": data.OrderNumber},
	})
}

// SendOrderStatusUpdateEmail tells the customer their order moved on
func (s *EmailService) SendOrderStatusUpdateEmail(ctx context.Context, data OrderStatusUpdateData) error {
	htmlContent, err := s.renderTemplate("order_status_update", data)
	if err != nil {
		return fmt.Errorf("failed to render order status update template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{data.UserEmail},
		Subject:     fmt.Sprintf("Order %s: %s", data.OrderNumber, data.StatusLabel),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderStatusUpdate,
		Data:        map[string]interface{}{"order_number": data.OrderNumber, "status": data.StatusLabel},
	})
}

// SendContactMessage forwards a contact form submission to the bakery inbox
func (s *EmailService) SendContactMessage(ctx context.Context, data ContactMessageData) error {
	data.EmailTemplateData = s.base("", s.config.External.Email.NotifyAddress)

	htmlContent, err := s.renderTemplate("contact_message", data)
	if err != nil {
		return fmt.Errorf("failed to render contact message template: %w", err)
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{s.config.External.Email.NotifyAddress},
		ReplyTo:     data.Email,
		Subject:     fmt.Sprintf("Website enquiry: %s", data.Subject),
		HTMLContent: htmlContent,
		Type:        EmailTypeContactMessage,
	})
}

func (s *EmailService) base(userName, userEmail string) EmailTemplateData {
	return GetBaseTemplateData(
		s.config.External.Email.FromName,
		s.config.App.BaseURL,
		userName,
		userEmail,
	)
}

// renderTemplate renders an email template with data
func (s *EmailService) renderTemplate(templateName string, data interface{}) (string, error) {
	tmpl, exists := s.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template %s not found", templateName)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

// SendTestEmail sends a short message through the configured provider
func (s *EmailService) SendTestEmail(ctx context.Context, to string) error {
	data := s.base("", to)
	return s.SendEmail(ctx, &Email{
		To:          []string{to},
		Subject:     fmt.Sprintf("%s email check", data.SiteName),
		HTMLContent: fmt.Sprintf("<p>Email delivery from %s is working.</p><p>Provider: %s</p>", template.HTMLEscapeString(data.SiteName), template.HTMLEscapeString(s.config.External.Email.Provider)),
		Type:        EmailTypeTest,
	})
}
