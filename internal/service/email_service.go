package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService delivers transactional mail. Implementations must be
// safe for concurrent use.
type EmailService interface {
	SendOTP(ctx context.Context, to, name, code string, validity time.Duration) error
	SendEmployeeInvitation(ctx context.Context, to, employeeName, companyName, inviteLink string) error
	SendPasswordReset(ctx context.Context, to, name, code string, validity time.Duration) error
}

// NoopEmailService logs instead of sending. Used in development and in
// tests where delivery is irrelevant.
type NoopEmailService struct{}

func NewNoopEmailService() *NoopEmailService { return &NoopEmailService{} }

func (s *NoopEmailService) SendOTP(_ context.Context, to, _, code string, _ time.Duration) error {
	log.Printf("[email noop] OTP %s for %s", code, to)
	return nil
}

func (s *NoopEmailService) SendEmployeeInvitation(_ context.Context, to, _, _, link string) error {
	log.Printf("[email noop] invitation for %s: %s", to, link)
	return nil
}

func (s *NoopEmailService) SendPasswordReset(_ context.Context, to, _, code string, _ time.Duration) error {
	log.Printf("[email noop] password reset %s for %s", code, to)
	return nil
}

// ResendEmailService sends through the Resend API with a bounded retry
// on rate-limit responses.
type ResendEmailService struct {
	client     *resend.Client
	from       string
	maxRetries int
	retryDelay time.Duration
}

func NewResendEmailService(apiKey, from string) *ResendEmailService {
	return &ResendEmailService{
		client:     resend.NewClient(apiKey),
		from:       from,
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
	}
}

func (s *ResendEmailService) send(ctx context.Context, to, subject, html string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryDelay * time.Duration(attempt)):
			}
		}
		if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("sending email to %s: %w", to, lastErr)
}

func (s *ResendEmailService) SendOTP(ctx context.Context, to, name, code string, validity time.Duration) error {
	subject := "Votre code de vérification Tsena"
	html := fmt.Sprintf(
		`<p>Bonjour %s,</p>
<p>Votre code de vérification est : <strong>%s</strong></p>
<p>Ce code expire dans %d minutes.</p>
<p>L'équipe Tsena</p>`,
		name, code, int(validity.Minutes()))
	return s.send(ctx, to, subject, html)
}

func (s *ResendEmailService) SendEmployeeInvitation(ctx context.Context, to, employeeName, companyName, inviteLink string) error {
	subject := fmt.Sprintf("Invitation à rejoindre %s sur Tsena", companyName)
	html := fmt.Sprintf(
		`<p>Bonjour %s,</p>
<p>%s vous invite à rejoindre son espace Tsena.</p>
<p><a href="%s">Définir mon mot de passe</a></p>
<p>L'équipe Tsena</p>`,
		employeeName, companyName, inviteLink)
	return s.send(ctx, to, subject, html)
}

func (s *ResendEmailService) SendPasswordReset(ctx context.Context, to, name, code string, validity time.Duration) error {
	subject := "Réinitialisation de votre mot de passe Tsena"
	html := fmt.Sprintf(
		`<p>Bonjour %s,</p>
<p>Votre code de réinitialisation est : <strong>%s</strong></p>
<p>Ce code expire dans %d minutes.</p>
<p>Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.</p>
<p>L'équipe Tsena</p>`,
		name, code, int(validity.Minutes()))
	return s.send(ctx, to, subject, html)
}
