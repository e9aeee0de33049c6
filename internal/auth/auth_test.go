package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminRepo struct {
	users map[string]*AdminUser
	err   error
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, ErrInvalidCredentials
}

func newAuthService(t *testing.T, password string) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeAdminRepo{users: map[string]*AdminUser{
		"admin@example.com": {ID: "admin-1", Email: "admin@example.com", PasswordHash: string(hash)},
	}}
	return NewService(repo, "test-secret", time.Hour, zerolog.Nop())
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc := newAuthService(t, "s3cret-pass")

	token, err := svc.Login(context.Background(), "admin@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	adminID, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", adminID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(t, "s3cret-pass")

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAuthService(t, "s3cret-pass")

	_, err := svc.Login(context.Background(), "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RepoFailure(t *testing.T) {
	repo := &fakeAdminRepo{err: errors.New("connection refused")}
	svc := NewService(repo, "test-secret", time.Hour, zerolog.Nop())

	_, err := svc.Login(context.Background(), "admin@example.com", "pass")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := newAuthService(t, "s3cret-pass")

	_, err := svc.VerifyToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	svc := newAuthService(t, "s3cret-pass")
	token, err := svc.Login(context.Background(), "admin@example.com", "s3cret-pass")
	require.NoError(t, err)

	other := NewService(&fakeAdminRepo{}, "different-secret", time.Hour, zerolog.Nop())
	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	svc := newAuthService(t, "s3cret-pass")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Login(context.Background(), "admin@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
