package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/d085/storefront/internal/domain"
	"github.com/d085/storefront/pkg/common"
)

// CodeTTL is how long an issued code stays valid.
const CodeTTL = time.Hour

var (
	ErrUserNotFound = errors.New("no account matches this email")
	ErrCodeNotFound = errors.New("no active one-time code for this action")
	ErrCodeExpired  = errors.New("one-time code expired")
	ErrCodeMismatch = errors.New("one-time code does not match")
)

// Mailer dispatches notification mail. Failures must surface to the caller.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// Service drives the one-time-code lifecycle for password resets and
// email changes. Codes are issued hashed, verified with constant-effort
// bcrypt comparison and expire lazily: validity is decided at
// verification time, never by a background job.
type Service struct {
	codes    CodeRepository
	accounts AccountRepository
	mailer   Mailer
	baseURL  string
	now      func() time.Time
}

func NewService(codes CodeRepository, accounts AccountRepository, mailer Mailer, baseURL string) *Service {
	return &Service{
		codes:    codes,
		accounts: accounts,
		mailer:   mailer,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

func (s *Service) issue(ctx context.Context, purpose string) (plaintext string, err error) {
	code := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	// Replace enforces the one-live-code-per-purpose invariant.
	err = s.codes.Replace(ctx, &domain.Otp{
		ID:        common.UUIDint64(),
		Purpose:   purpose,
		Code:      string(hash),
		ExpiresAt: s.now().Add(CodeTTL),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// RequestPasswordReset issues a password-reset code for the account
// matching email and mails a time-bounded action link carrying the
// plaintext code. Exactly one email is sent per successful call.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := s.issue(ctx, domain.OtpPurposePassword)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		`<p>Clique no botão abaixo para alterar sua senha</p>`+
			`<a href="%s/alterarSenha/%s" style="background-color:#0af573;padding:0.5rem 1rem;text-decoration:none;color:black;border-radius:0.375rem;">Alterar senha</a>`+
			`<p>Esse link <b>expira em 1 hora</b>.</p>`,
		s.baseURL, code)

	if err := s.mailer.Send(account.Email, "Alterar senha", body); err != nil {
		return err
	}

	zap.L().Info("password reset code issued", zap.String("email", account.Email))
	return nil
}

// RequestEmailChange issues an email-change code for the sole account and
// mails it to the current address.
func (s *Service) RequestEmailChange(ctx context.Context) error {
	account, err := s.accounts.First(ctx)
	if err != nil {
		return err
	}

	code, err := s.issue(ctx, domain.OtpPurposeEmail)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		`<p>Use o código abaixo para confirmar a troca de email</p>`+
			`<p style="font-size:1.2rem"><b>%s</b></p>`+
			`<p>Esse código <b>expira em 1 hora</b>.</p>`,
		code)

	if err := s.mailer.Send(account.Email, "Alterar email", body); err != nil {
		return err
	}

	zap.L().Info("email change code issued", zap.String("email", account.Email))
	return nil
}

// verify loads the live code for purpose and validates the submitted
// plaintext. The expiry check runs before the hash comparison: an expired
// code never validates, matching or not.
func (s *Service) verify(ctx context.Context, purpose, submitted string) (*domain.Otp, error) {
	code, err := s.codes.FindByPurpose(ctx, purpose)
	if err != nil {
		return nil, err
	}
	if s.now().After(code.ExpiresAt) {
		return nil, ErrCodeExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(code.Code), []byte(submitted)) != nil {
		return nil, ErrCodeMismatch
	}
	return code, nil
}

// VerifyAndSetPassword validates the submitted code and, on success,
// stores the bcrypt hash of newPassword on the sole account and deletes
// the consumed code.
func (s *Service) VerifyAndSetPassword(ctx context.Context, submitted, newPassword string) error {
	code, err := s.verify(ctx, domain.OtpPurposePassword, submitted)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account, err := s.accounts.First(ctx)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(ctx, account.ID, string(hash)); err != nil {
		return err
	}

	if err := s.codes.Delete(ctx, code.ID); err != nil {
		return err
	}

	zap.L().Info("password updated via one-time code")
	return nil
}

// VerifyAndSetEmail validates the submitted code and, on success, updates
// the sole account's email and deletes the consumed code. Same shape as
// the password path: expiry is checked and the code is single-use.
func (s *Service) VerifyAndSetEmail(ctx context.Context, submitted, newEmail string) error {
	code, err := s.verify(ctx, domain.OtpPurposeEmail, submitted)
	if err != nil {
		return err
	}

	account, err := s.accounts.First(ctx)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdateEmail(ctx, account.ID, newEmail); err != nil {
		return err
	}

	if err := s.codes.Delete(ctx, code.ID); err != nil {
		return err
	}

	zap.L().Info("login email updated via one-time code", zap.String("email", newEmail))
	return nil
}

// PurgeExpired removes codes past their expiry. Storage hygiene only:
// verification never relies on it.
func (s *Service) PurgeExpired(ctx context.Context) error {
	return s.codes.DeleteExpired(ctx, s.now())
}
