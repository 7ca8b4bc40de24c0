package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/ronitchordiya/Flint-and-Flour/middleware"
	"github.com/ronitchordiya/Flint-and-Flour/models"
)

const fromName = "Flint & Flours"

// Service sends transactional email through SendGrid. Without an API key it
// runs in simulated mode and only logs the mail it would have sent.
type Service struct {
	client    *sendgrid.Client
	fromEmail string
	baseURL   string
	logger    *zap.Logger
}

func New(apiKey, fromEmail, baseURL string, logger *zap.Logger) *Service {
	s := &Service{
		fromEmail: fromEmail,
		baseURL:   baseURL,
		logger:    logger,
	}
	if apiKey == "" {
		logger.Warn("SENDGRID_API_KEY not set, emails will be simulated")
		return s
	}
	s.client = sendgrid.NewSendClient(apiKey)
	return s
}

// SendVerificationEmail mails the address confirmation link issued at
// registration.
func (s *Service) SendVerificationEmail(ctx context.Context, recipient, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL, token)

	if s.client == nil {
		s.logger.Info("SIMULATED EMAIL: verification link",
			zap.String("recipient", recipient),
			zap.String("link", link))
		middleware.RecordEmailSent("verification", "simulated")
		return nil
	}

	subject := "Welcome to Flint & Flours - Verify Your Email"
	plain := "Welcome to Flint & Flours! Please verify your email: " + link
	return s.send(ctx, "verification", recipient, subject, plain, verificationHTML(link))
}

// SendPasswordResetEmail mails a reset link that expires after an hour.
func (s *Service) SendPasswordResetEmail(ctx context.Context, recipient, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)

	if s.client == nil {
		s.logger.Info("SIMULATED EMAIL: password reset link",
			zap.String("recipient", recipient),
			zap.String("link", link))
		middleware.RecordEmailSent("password_reset", "simulated")
		return nil
	}

	subject := "Reset Your Flint & Flours Password"
	plain := "We received a request to reset your Flint & Flours password: " + link
	return s.send(ctx, "password_reset", recipient, subject, plain, passwordResetHTML(link))
}

// SendOrderConfirmation mails the order summary after payment completes.
func (s *Service) SendOrderConfirmation(ctx context.Context, recipient string, order *models.Order) error {
	if s.client == nil {
		s.logger.Info("SIMULATED EMAIL: order confirmation",
			zap.String("recipient", recipient),
			zap.String("order_id", order.ID))
		middleware.RecordEmailSent("order_confirmation", "simulated")
		return nil
	}

	subject := fmt.Sprintf("Order Confirmation #%s - Flint & Flours", order.ID)
	plain := fmt.Sprintf("Thank you for your order! Order #%s, total %s %.2f.",
		order.ID, order.Currency, order.Total)
	return s.send(ctx, "order_confirmation", recipient, subject, plain, orderConfirmationHTML(order))
}

// SendShippingUpdate mails tracking details when an order ships.
func (s *Service) SendShippingUpdate(ctx context.Context, recipient string, order *models.Order) error {
	if s.client == nil {
		s.logger.Info("SIMULATED EMAIL: shipping update",
			zap.String("recipient", recipient),
			zap.String("order_id", order.ID),
			zap.String("tracking_link", order.TrackingLink))
		middleware.RecordEmailSent("shipping_update", "simulated")
		return nil
	}

	subject := "Your Order is On Its Way! - Flint & Flours"
	plain := fmt.Sprintf("Your Flint & Flours order #%s has shipped. Track it here: %s",
		order.ID, order.TrackingLink)
	return s.send(ctx, "shipping_update", recipient, subject, plain, shippingUpdateHTML(order))
}

func (s *Service) send(ctx context.Context, emailType, recipient, subject, plain, html string) error {
	from := mail.NewEmail(fromName, s.fromEmail)
	to := mail.NewEmail("", recipient)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		middleware.RecordEmailSent(emailType, "failed")
		s.logger.Error("Failed to send email",
			zap.String("recipient", recipient),
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}
	if resp.StatusCode >= 400 {
		middleware.RecordEmailSent(emailType, "failed")
		s.logger.Error("SendGrid rejected email",
			zap.String("recipient", recipient),
			zap.String("subject", subject),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", resp.Body))
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	middleware.RecordEmailSent(emailType, "sent")
	s.logger.Info("Email sent",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.Int("status_code", resp.StatusCode))
	return nil
}
