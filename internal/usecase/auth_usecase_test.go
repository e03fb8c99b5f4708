package usecase

import (
	"context"
	"testing"
	"time"

	"catalog_service/internal/auth"
	"catalog_service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthUseCase(users domain.UserRepository, tokens *auth.TokenManager) AuthUseCase {
	uc := NewAuthUseCase(users, tokens, 20*time.Minute, func(email string) bool {
		return email == "boss@example.com"
	}, testLogger())
	uc.(*authUseCase).bcryptCost = bcrypt.MinCost
	return uc
}

func TestRegisterAndIssueToken(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	tokens := auth.NewTokenManager("secret")
	uc := newTestAuthUseCase(users, tokens)

	user, err := uc.Register(ctx, RegisterInput{FirstName: " Ada ", LastName: "Lovelace", Email: " Ada@Example.com ", Password: "Passw0rdX"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.FirstName)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "Passw0rdX", user.PasswordHash)

	token, err := uc.IssueToken(ctx, "ADA@example.com", "Passw0rdX")
	require.NoError(t, err)

	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, "Ada", identity.FirstName)
	assert.Equal(t, "Lovelace", identity.LastName)

	current, err := uc.CurrentUser(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, identity, current)
}

func TestRegisterAdminEmail(t *testing.T) {
	uc := newTestAuthUseCase(newFakeUserRepo(), auth.NewTokenManager("secret"))

	user, err := uc.Register(context.Background(), RegisterInput{FirstName: "Boss", Email: "boss@example.com", Password: "Passw0rdX"})
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	uc := newTestAuthUseCase(users, auth.NewTokenManager("secret"))
	_, err := uc.Register(ctx, RegisterInput{FirstName: "A", Email: "taken@example.com", Password: "Passw0rdX"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      RegisterInput
		wantErr error
	}{
		{"empty first name", RegisterInput{Email: "a@b.co", Password: "Passw0rdX"}, domain.ErrInvalidInput},
		{"bad email", RegisterInput{FirstName: "A", Email: "nope", Password: "Passw0rdX"}, domain.ErrInvalidInput},
		{"short password", RegisterInput{FirstName: "A", Email: "a@b.co", Password: "Pw0"}, domain.ErrInvalidInput},
		{"no upper", RegisterInput{FirstName: "A", Email: "a@b.co", Password: "passw0rdx"}, domain.ErrInvalidInput},
		{"no digit", RegisterInput{FirstName: "A", Email: "a@b.co", Password: "Passwordx"}, domain.ErrInvalidInput},
		{"duplicate", RegisterInput{FirstName: "A", Email: "TAKEN@example.com", Password: "Passw0rdX"}, domain.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIssueTokenBadCredentials(t *testing.T) {
	ctx := context.Background()
	uc := newTestAuthUseCase(newFakeUserRepo(), auth.NewTokenManager("secret"))
	_, err := uc.Register(ctx, RegisterInput{FirstName: "A", Email: "a@example.com", Password: "Passw0rdX"})
	require.NoError(t, err)

	_, err = uc.IssueToken(ctx, "a@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.IssueToken(ctx, "nobody@example.com", "Passw0rdX")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = uc.IssueToken(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestCurrentUserRequiresCaller(t *testing.T) {
	uc := newTestAuthUseCase(newFakeUserRepo(), auth.NewTokenManager("secret"))
	_, err := uc.CurrentUser(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
