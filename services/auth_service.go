package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cppla/mforum/models"
	"github.com/cppla/mforum/repository"
	"github.com/cppla/mforum/utils"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var (
	ErrMissingFields      = fmt.Errorf("%w: Missing required fields", utils.ErrValidation)
	ErrMissingCredentials = fmt.Errorf("%w: Missing username or password", utils.ErrValidation)
	ErrUsernameTooShort   = fmt.Errorf("%w: Username too short", utils.ErrValidation)
	ErrPasswordTooShort   = fmt.Errorf("%w: Password must be at least 6 characters", utils.ErrValidation)
	ErrInvalidEmail       = fmt.Errorf("%w: Invalid email format", utils.ErrValidation)
	ErrBadCredentials     = fmt.Errorf("%w: Invalid username or password", utils.ErrAuthentication)
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// TokenIssuer is the part of the credential service AuthService needs.
type TokenIssuer interface {
	IssueToken(userID uint) (string, time.Time, error)
	ResolveToken(token string) (uint, error)
}

// AuthResult is a user together with a freshly issued bearer token.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// AuthService runs registration and login against the identity store.
type AuthService struct {
	users  repository.UserRepository
	hasher utils.PasswordHasher
	tokens TokenIssuer
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, hasher utils.PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

// Register validates the input, stores the user and issues a token. Uniqueness is left to the
// store, so a duplicate surfaces as repository.ErrDuplicateUsername or ErrDuplicateEmail.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	if err := ValidateRegistration(username, email, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login checks credentials, stamps the last-login time and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}

	at := s.now().UnixMilli()
	if err := s.users.UpdateLastLogin(ctx, user.ID, at); err != nil {
		return nil, err
	}
	user.LastLogin = at
	return s.issue(user)
}

// ResolveToken maps a bearer token back to its user identifier.
func (s *AuthService) ResolveToken(token string) (uint, error) {
	return s.tokens.ResolveToken(token)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expires, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expires}, nil
}

// ValidateRegistration applies the acceptance policy: all fields present, username of at
// least three characters, password of at least six, email shaped like local@domain.
func ValidateRegistration(username, email, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return ErrMissingFields
	}
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}
