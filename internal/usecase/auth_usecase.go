package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	IssueToken(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, caller *domain.Identity) (*domain.Identity, error)
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// TokenSigner issues access tokens for an identity.
type TokenSigner interface {
	Sign(identity domain.Identity, ttl time.Duration) (string, error)
}

type authUseCase struct {
	userRepo   domain.UserRepository
	signer     TokenSigner
	tokenTTL   time.Duration
	isAdmin    func(email string) bool
	bcryptCost int
	log        *logrus.Logger
}

var _ AuthUseCase = (*authUseCase)(nil)

// NewAuthUseCase builds the auth use case. isAdmin decides which registered
// emails receive administrator rights and may be nil.
func NewAuthUseCase(repo domain.UserRepository, signer TokenSigner, tokenTTL time.Duration, isAdmin func(string) bool, logger *logrus.Logger) AuthUseCase {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &authUseCase{
		userRepo:   repo,
		signer:     signer,
		tokenTTL:   tokenTTL,
		isAdmin:    isAdmin,
		bcryptCost: bcrypt.DefaultCost,
		log:        logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	firstName := strings.TrimSpace(in.FirstName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	uc.log.Infof("Use Case: Attempting registration for email: %s", email)

	if firstName == "" {
		uc.log.Warn("Use Case: Registration failed - empty first name")
		return nil, fmt.Errorf("%w: first name cannot be empty", domain.ErrInvalidInput)
	}
	if !isValidEmail(email) {
		uc.log.Warnf("Use Case: Registration failed - invalid email format: %s", email)
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if err := validatePassword(in.Password); err != nil {
		uc.log.Warnf("Use Case: Registration failed - password validation error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	created, err := uc.userRepo.CreateUser(ctx, &domain.User{
		FirstName:    firstName,
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsAdmin:      uc.isAdmin(email),
	})
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create user %s: %v", email, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered successfully. ID: %d, Admin: %t", created.ID, created.IsAdmin)
	return created, nil
}

func (uc *authUseCase) IssueToken(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	invalid := fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)

	if email == "" || password == "" {
		return "", invalid
	}
	user, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Auth failed - user not found: %s", email)
			return "", invalid
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during auth: %v", email, err)
		return "", fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Auth failed - incorrect password for user ID %d", user.ID)
			return "", invalid
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user ID %d: %v", user.ID, err)
		return "", fmt.Errorf("internal error during authentication: %w", err)
	}

	token, err := uc.signer.Sign(domain.Identity{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
	}, uc.tokenTTL)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to sign token for user ID %d: %v", user.ID, err)
		return "", err
	}
	uc.log.Infof("Use Case: Token issued for user ID %d", user.ID)
	return token, nil
}

func (uc *authUseCase) CurrentUser(_ context.Context, caller *domain.Identity) (*domain.Identity, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return caller, nil
}

func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	switch {
	case !hasUpper:
		return errors.New("password must contain at least one uppercase letter")
	case !hasLower:
		return errors.New("password must contain at least one lowercase letter")
	case !hasDigit:
		return errors.New("password must contain at least one digit")
	}
	return nil
}
