package utils

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional mail through SendGrid.
type EmailService struct {
	client  *sendgrid.Client
	from    *mail.Email
	baseURL string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		panic("SENDGRID_API_KEY is not set in environment variables")
	}
	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Volunteer Connect"
	}
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	return &EmailService{
		client:  sendgrid.NewSendClient(apiKey),
		from:    mail.NewEmail(fromName, os.Getenv("EMAIL_FROM")),
		baseURL: baseURL,
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(es.from, subject, to, htmlContent, htmlContent)

	response, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email: sendgrid returned %d", response.StatusCode)
	}
	return nil
}

// SendVerificationEmail sends an email verification link to the user. The
// link expires 24 hours after issue.
func (es *EmailService) SendVerificationEmail(toEmail, token, name string) error {
	subject := "Verify Your Email Address"
	verificationLink := fmt.Sprintf("%s/api/auth/verify-email/%s", es.baseURL, token)
	htmlContent := fmt.Sprintf(
		`<h2>Welcome to Volunteer Connect!</h2>
<p>Hello %s,</p>
<p>Thank you for registering. Please verify your email address by clicking the link below:</p>
<p><a href="%s">Verify Email</a></p>
<p>If you didn't create an account with us, please ignore this email.</p>
<p>This link will expire in 24 hours.</p>`,
		name,
		verificationLink,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}
