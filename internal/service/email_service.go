package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// MiladyCredentials - данные доступа, передаваемые студенту
type MiladyCredentials struct {
	Username          string
	TemporaryPassword string
	LicenseCode       string
}

// EmailService sends transactional emails.
type EmailService interface {
	SendMiladyCredentials(ctx context.Context, toEmail, studentName string, creds MiladyCredentials, idempotencyKey string) error
}

// NoopEmailService is used when outbound email is disabled.
type NoopEmailService struct{}

func (s *NoopEmailService) SendMiladyCredentials(ctx context.Context, toEmail, studentName string, creds MiladyCredentials, idempotencyKey string) error {
	log.Printf("[EmailService] noop send milady credentials to=%s", toEmail)
	return nil
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendMiladyCredentials(ctx context.Context, toEmail, studentName string, creds MiladyCredentials, idempotencyKey string) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}
	if studentName == "" {
		studentName = "Student"
	}

	var details strings.Builder
	if creds.LicenseCode != "" {
		fmt.Fprintf(&details, "License code: %s (redeem at %s)\n", creds.LicenseCode, miladyRedeemURL)
	}
	if creds.Username != "" {
		fmt.Fprintf(&details, "Username: %s\n", creds.Username)
	} else {
		fmt.Fprintf(&details, "Email: %s\n", toEmail)
	}
	if creds.TemporaryPassword != "" {
		fmt.Fprintf(&details, "Temporary password: %s (change it after first login)\n", creds.TemporaryPassword)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Your Milady Theory Training Access is Ready",
		Text: fmt.Sprintf(
			"Hi %s,\n\nYour Milady RISE theory training access has been set up.\n\n%s\nLogin: %s\n",
			studentName, details.String(), miladyLoginURL,
		),
	}

	options := &resend.SendEmailOptions{}
	if strings.TrimSpace(idempotencyKey) != "" {
		options.IdempotencyKey = strings.TrimSpace(idempotencyKey)
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && (netErr.Timeout() || netErr.Temporary()) {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
