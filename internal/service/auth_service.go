package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pizzeria/internal/auth"
	apperrors "pizzeria/internal/errors"
	"pizzeria/internal/model"
	"pizzeria/internal/repository"
)

const (
	// DefaultMaxFailedAttempts is the number of consecutive failed logins that locks an account.
	DefaultMaxFailedAttempts = 5
	// DefaultLockoutWindow is how long a locked account refuses logins.
	DefaultLockoutWindow = 15 * time.Minute
)

// LockoutPolicy configures the failed-login lockout.
type LockoutPolicy struct {
	MaxFailedAttempts int
	Window            time.Duration
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Address  string
}

// AuthService gates access to protected operations and resists credential guessing.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.Account, string, error)
	Login(ctx context.Context, email, password string) (*model.Account, string, error)
	Authenticate(ctx context.Context, token string) (*model.Account, error)
	RequireAdmin(account *model.Account) (*model.Account, error)
	Logout(ctx context.Context, token string) error
	BootstrapAdmin(ctx context.Context, input RegisterInput) (*model.Account, error)
}

// AuthOption customises an AuthService.
type AuthOption func(*authService)

// WithClock overrides the time source used for lockout decisions.
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) { s.now = now }
}

// WithLockoutPolicy overrides the default 5 attempts / 15 minutes policy.
// Non-positive fields keep their defaults.
func WithLockoutPolicy(policy LockoutPolicy) AuthOption {
	return func(s *authService) {
		if policy.MaxFailedAttempts > 0 {
			s.policy.MaxFailedAttempts = policy.MaxFailedAttempts
		}
		if policy.Window > 0 {
			s.policy.Window = policy.Window
		}
	}
}

// WithLogger sets the logger used for security events.
func WithLogger(logger *slog.Logger) AuthOption {
	return func(s *authService) { s.logger = logger }
}

type authService struct {
	accountRepo repository.AccountRepository
	jwtService  *auth.JWTService
	hasher      auth.PasswordHasher
	tokenStore  auth.TokenStoreInterface
	policy      LockoutPolicy
	now         func() time.Time
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	accountRepo repository.AccountRepository,
	jwtService *auth.JWTService,
	hasher auth.PasswordHasher,
	tokenStore auth.TokenStoreInterface,
	opts ...AuthOption,
) AuthService {
	s := &authService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		hasher:      hasher,
		tokenStore:  tokenStore,
		policy: LockoutPolicy{
			MaxFailedAttempts: DefaultMaxFailedAttempts,
			Window:            DefaultLockoutWindow,
		},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer account with a hashed password and returns it with a fresh token.
func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.Account, string, error) {
	account, err := s.createAccount(ctx, input, false)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return account, token, nil
}

func (s *authService) createAccount(ctx context.Context, input RegisterInput, isAdmin bool) (*model.Account, error) {
	email := NormalizeEmail(input.Email)

	if !auth.PasswordIsStrong(input.Password) {
		return nil, apperrors.ErrWeakPassword
	}

	// Check if account already exists
	existing, err := s.accountRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateAccount
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check account existence: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := &model.Account{
		ID:           uuid.New(),
		Email:        email,
		FullName:     sanitizeText(input.FullName, maxNameLength),
		Phone:        sanitizeText(input.Phone, maxPhoneLength),
		Address:      sanitizeText(input.Address, maxAddressLength),
		PasswordHash: hashedPassword,
		IsAdmin:      isAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

// Login verifies credentials, maintaining the failed-attempt counter and lockout.
func (s *authService) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	account, err := s.accountRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find account: %w", err)
	}

	now := s.now()
	if account.IsLocked(now) {
		return nil, "", apperrors.ErrAccountLocked
	}

	// A lock that has run out reopens the account with a clean counter.
	if account.LockUntil != nil {
		account.LockUntil = nil
		account.FailedLoginAttempts = 0
	}

	if !s.hasher.Check(password, account.PasswordHash) {
		state := repository.LoginState{FailedLoginAttempts: account.FailedLoginAttempts + 1}
		if state.FailedLoginAttempts >= s.policy.MaxFailedAttempts {
			lockUntil := now.Add(s.policy.Window)
			state.LockUntil = &lockUntil
			s.logger.WarnContext(ctx, "account locked after failed logins",
				slog.String("account_id", account.ID.String()),
				slog.Int("failed_attempts", state.FailedLoginAttempts),
				slog.Time("lock_until", lockUntil),
			)
		}
		if err := s.accountRepo.UpdateLoginState(ctx, account.ID, state); err != nil {
			return nil, "", fmt.Errorf("record failed login: %w", err)
		}
		return nil, "", apperrors.ErrInvalidCredentials
	}

	state := repository.LoginState{LastLogin: &now}
	if err := s.accountRepo.UpdateLoginState(ctx, account.ID, state); err != nil {
		return nil, "", fmt.Errorf("record login: %w", err)
	}
	account.FailedLoginAttempts = 0
	account.LockUntil = nil
	account.LastLogin = &now

	token, err := s.jwtService.GenerateToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return account, token, nil
}

// Authenticate resolves a bearer token to a live, unlocked account.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.Account, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	revoked, err := s.tokenStore.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}

	account, err := s.accountRepo.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}

	if account.IsLocked(s.now()) {
		return nil, apperrors.ErrAccountLocked
	}

	return account, nil
}

// RequireAdmin passes admins through and rejects everyone else.
func (s *authService) RequireAdmin(account *model.Account) (*model.Account, error) {
	if account == nil || !account.IsAdmin {
		return nil, apperrors.ErrForbidden
	}
	return account, nil
}

// Logout revokes the token until it would have expired.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return apperrors.ErrTokenExpired
		}
		return apperrors.ErrInvalidToken
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.tokenStore.RevokeToken(ctx, claims.ID, ttl); err != nil {
		s.logger.WarnContext(ctx, "token revocation failed",
			slog.String("account_id", claims.Subject),
			slog.String("error", err.Error()),
		)
		return apperrors.ErrRevocationUnavailable
	}
	return nil
}

// BootstrapAdmin creates an admin account, or promotes the existing account with that email.
func (s *authService) BootstrapAdmin(ctx context.Context, input RegisterInput) (*model.Account, error) {
	existing, err := s.accountRepo.FindByEmail(ctx, NormalizeEmail(input.Email))
	if err == nil {
		if existing.IsAdmin {
			return existing, nil
		}
		existing.IsAdmin = true
		existing.UpdatedAt = s.now()
		if err := s.accountRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("promote account: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find account: %w", err)
	}

	return s.createAccount(ctx, input, true)
}
