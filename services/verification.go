package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"go-volunteer/models"
	"go-volunteer/store"
)

const (
	verificationTokenTTL   = 24 * time.Hour
	verificationTokenBytes = 20
)

// Mailer delivers verification mail. Implemented by utils.EmailService; tests
// substitute failing fakes.
type Mailer interface {
	SendVerificationEmail(toEmail, token, name string) error
}

// VerificationService owns the email-verification token lifecycle: issue on
// registration, redeem on the emailed link, resend on request.
type VerificationService struct {
	users  store.UserStore
	mailer Mailer
	logger zerolog.Logger
	now    func() time.Time
}

func NewVerificationService(users store.UserStore, mailer Mailer, logger zerolog.Logger) *VerificationService {
	return &VerificationService{
		users:  users,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

// NewToken returns a fresh opaque token and its expiry.
func (s *VerificationService) NewToken() (string, time.Time, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, err
	}
	return hex.EncodeToString(buf), s.now().Add(verificationTokenTTL), nil
}

// Deliver sends the verification mail carrying token to email.
func (s *VerificationService) Deliver(email, token, name string) error {
	if name == "" {
		name = "User"
	}
	if err := s.mailer.SendVerificationEmail(email, token, name); err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("verification email delivery failed")
		return ErrDeliveryFailed
	}
	return nil
}

// Redeem verifies the user holding token. The token match and the expiry
// check are one store lookup against a single now, so a wrong token and an
// expired one are indistinguishable to the caller. A token cleared by an
// earlier redeem fails the same way.
func (s *VerificationService) Redeem(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.users.ByVerificationToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.VerificationTokenExpire = time.Time{}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Resend rotates the user's token by overwrite and delivers it again. If
// delivery fails the token pair is cleared, leaving the account without a
// pending token rather than with one that was never sent.
func (s *VerificationService) Resend(ctx context.Context, email string) error {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmailNotFound
		}
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	token, expiry, err := s.NewToken()
	if err != nil {
		return err
	}
	user.VerificationToken = token
	user.VerificationTokenExpire = expiry
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.Deliver(user.Email, token, ""); err != nil {
		user.VerificationToken = ""
		user.VerificationTokenExpire = time.Time{}
		if uerr := s.users.Update(ctx, user); uerr != nil {
			s.logger.Error().Err(uerr).Str("email", email).Msg("failed to clear verification token after delivery failure")
		}
		return err
	}
	return nil
}
