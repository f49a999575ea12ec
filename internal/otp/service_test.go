package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d085/storefront/internal/domain"
)

type fakeCodeRepo struct {
	byPurpose map[string]*domain.Otp
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{byPurpose: make(map[string]*domain.Otp)}
}

func (r *fakeCodeRepo) FindByPurpose(_ context.Context, purpose string) (*domain.Otp, error) {
	code, found := r.byPurpose[purpose]
	if !found {
		return nil, ErrCodeNotFound
	}
	clone := *code
	return &clone, nil
}

func (r *fakeCodeRepo) Replace(_ context.Context, code *domain.Otp) error {
	clone := *code
	r.byPurpose[code.Purpose] = &clone
	return nil
}

func (r *fakeCodeRepo) Delete(_ context.Context, id int64) error {
	for purpose, code := range r.byPurpose {
		if code.ID == id {
			delete(r.byPurpose, purpose)
		}
	}
	return nil
}

func (r *fakeCodeRepo) DeleteExpired(_ context.Context, now time.Time) error {
	for purpose, code := range r.byPurpose {
		if code.ExpiresAt.Before(now) {
			delete(r.byPurpose, purpose)
		}
	}
	return nil
}

type fakeAccountRepo struct {
	account domain.Account
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if r.account.Email != email {
		return nil, ErrUserNotFound
	}
	clone := r.account
	return &clone, nil
}

func (r *fakeAccountRepo) First(_ context.Context) (*domain.Account, error) {
	clone := r.account
	return &clone, nil
}

func (r *fakeAccountRepo) UpdatePassword(_ context.Context, _ int64, hashedPassword string) error {
	r.account.Password = hashedPassword
	return nil
}

func (r *fakeAccountRepo) UpdateEmail(_ context.Context, _ int64, email string) error {
	r.account.Email = email
	return nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

// extractCode pulls the plaintext code out of the action link in a
// password-reset mail body.
func extractCode(t *testing.T, body string) string {
	t.Helper()
	const marker = "/alterarSenha/"
	idx := len(body)
	for i := 0; i+len(marker) < len(body); i++ {
		if body[i:i+len(marker)] == marker {
			idx = i + len(marker)
			break
		}
	}
	require.Less(t, idx, len(body), "no action link in mail body")
	end := idx
	for end < len(body) && body[end] != '"' {
		end++
	}
	return body[idx:end]
}

func newTestService() (*Service, *fakeCodeRepo, *fakeAccountRepo, *fakeMailer) {
	codes := newFakeCodeRepo()
	accounts := &fakeAccountRepo{account: domain.Account{ID: 1, Name: "Admin", Email: "admin@example.com"}}
	mailer := &fakeMailer{}
	svc := NewService(codes, accounts, mailer, "https://shop.example.com")
	return svc, codes, accounts, mailer
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc, codes, _, mailer := newTestService()

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, mailer.sent, "no mail on failure")
	assert.Empty(t, codes.byPurpose, "no code stored on failure")
}

func TestRequestPasswordResetIssuesHashedCode(t *testing.T) {
	svc, codes, _, mailer := newTestService()
	issuedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "admin@example.com"))

	require.Len(t, mailer.sent, 1, "exactly one mail per successful call")
	assert.Equal(t, "admin@example.com", mailer.sent[0].to)
	assert.Equal(t, "Alterar senha", mailer.sent[0].subject)

	stored := codes.byPurpose[domain.OtpPurposePassword]
	require.NotNil(t, stored)
	assert.Equal(t, issuedAt.Add(time.Hour), stored.ExpiresAt)

	plaintext := extractCode(t, mailer.sent[0].body)
	assert.NotEqual(t, plaintext, stored.Code, "plaintext never persisted")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Code), []byte(plaintext)))
}

func TestRequestPasswordResetSingletonInvariant(t *testing.T) {
	svc, codes, _, mailer := newTestService()

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "admin@example.com"))
	first := codes.byPurpose[domain.OtpPurposePassword].ID

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "admin@example.com"))

	require.Len(t, codes.byPurpose, 1, "exactly one live code for the purpose")
	assert.NotEqual(t, first, codes.byPurpose[domain.OtpPurposePassword].ID, "reissue replaced the code")

	// the first mailed code no longer verifies
	err := svc.VerifyAndSetPassword(context.Background(), extractCode(t, mailer.sent[0].body), "newpass")
	assert.ErrorIs(t, err, ErrCodeMismatch)
}

func TestRequestPasswordResetMailerFailure(t *testing.T) {
	svc, _, _, mailer := newTestService()
	mailer.err = assert.AnError

	err := svc.RequestPasswordReset(context.Background(), "admin@example.com")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestVerifyAndSetPasswordSuccess(t *testing.T) {
	svc, codes, accounts, mailer := newTestService()
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "admin@example.com"))
	code := extractCode(t, mailer.sent[0].body)

	require.NoError(t, svc.VerifyAndSetPassword(context.Background(), code, "new-secret"))

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(accounts.account.Password), []byte("new-secret")))
	assert.Empty(t, codes.byPurpose, "consumed code deleted")

	// second use fails: single-use
	err := svc.VerifyAndSetPassword(context.Background(), code, "other")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestVerifyAndSetPasswordNoCode(t *testing.T) {
	svc, _, _, _ := newTestService()
	err := svc.VerifyAndSetPassword(context.Background(), "anything", "pw")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestVerifyAndSetPasswordMismatch(t *testing.T) {
	svc, _, accounts, _ := newTestService()
	accounts.account.Password = "untouched"
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "admin@example.com"))

	err := svc.VerifyAndSetPassword(context.Background(), "wrong-code", "pw")

	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.Equal(t, "untouched", accounts.account.Password)
}

func TestVerifyExpiryPrecedesHashCheck(t *testing.T) {
	svc, _, _, mailer := newTestService()
	issuedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "admin@example.com"))
	code := extractCode(t, mailer.sent[0].body)

	// one second past the 1h window, with the exactly matching code
	svc.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	err := svc.VerifyAndSetPassword(context.Background(), code, "pw")

	assert.ErrorIs(t, err, ErrCodeExpired)
}

func TestVerifyAndSetEmailUnifiedFlow(t *testing.T) {
	svc, codes, accounts, _ := newTestService()
	issuedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	require.NoError(t, svc.RequestEmailChange(context.Background()))
	stored := codes.byPurpose[domain.OtpPurposeEmail]
	require.NotNil(t, stored)

	// email codes expire just like password codes
	svc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	err := svc.VerifyAndSetEmail(context.Background(), "irrelevant", "new@example.com")
	assert.ErrorIs(t, err, ErrCodeExpired)

	// re-issue, then verify successfully with the mailed code
	svc.now = func() time.Time { return issuedAt }
	mailer := svc.mailer.(*fakeMailer)
	mailer.sent = nil
	require.NoError(t, svc.RequestEmailChange(context.Background()))
	code := extractEmailCode(t, mailer.sent[0].body)

	require.NoError(t, svc.VerifyAndSetEmail(context.Background(), code, "new@example.com"))
	assert.Equal(t, "new@example.com", accounts.account.Email)
	assert.NotContains(t, codes.byPurpose, domain.OtpPurposeEmail, "email code is single-use too")
}

// extractEmailCode pulls the plaintext code out of an email-change mail body.
func extractEmailCode(t *testing.T, body string) string {
	t.Helper()
	const open = "<b>"
	const close = "</b>"
	start := -1
	for i := 0; i+len(open) < len(body); i++ {
		if body[i:i+len(open)] == open {
			start = i + len(open)
			break
		}
	}
	require.GreaterOrEqual(t, start, 0, "no code in mail body")
	end := start
	for end+len(close) <= len(body) && body[end:end+len(close)] != close {
		end++
	}
	return body[start:end]
}

func TestPurgeExpired(t *testing.T) {
	svc, codes, _, _ := newTestService()
	issuedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	require.NoError(t, svc.RequestEmailChange(context.Background()))
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "admin@example.com"))

	svc.now = func() time.Time { return issuedAt.Add(90 * time.Minute) }
	require.NoError(t, svc.PurgeExpired(context.Background()))

	assert.Empty(t, codes.byPurpose)
}
