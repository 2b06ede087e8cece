package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/resumeforge/resumeforge/internal/auth"
	"github.com/resumeforge/resumeforge/internal/cache"
	"github.com/resumeforge/resumeforge/internal/metrics"
	"github.com/resumeforge/resumeforge/internal/model"
	"github.com/resumeforge/resumeforge/internal/repository"
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionStore persists login sessions keyed by token hash.
type SessionStore interface {
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// AccountService handles registration, login and sessions.
type AccountService struct {
	users      UserStore
	sessions   SessionStore
	sessionTTL time.Duration
	metrics    metrics.Recorder

	hashPassword func(string) (string, error)
	now          func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, sessions SessionStore, sessionTTL time.Duration, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:        users,
		sessions:     sessions,
		sessionTTL:   sessionTTL,
		metrics:      recorder,
		hashPassword: auth.HashPassword,
		now:          time.Now,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Username string `validate:"required,notblank,max=150"`
	Email    string `validate:"max=254"`
	Password string
}

// Register creates an account. There is no password policy.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()
	return user, nil
}

// LoginResult is a newly opened session.
type LoginResult struct {
	Session *model.Session
	// Token is the cookie value. It is never stored server-side.
	Token string
}

// Login checks credentials and opens a session. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.burnVerify(password)
			s.metrics.IncLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &model.Session{
		ID:        token.Hash,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.metrics.IncLogin(true)
	return &LoginResult{Session: session, Token: token.Plaintext}, nil
}

// burnVerify spends the same work as a real verification so unknown
// usernames are not distinguishable by response time.
func (s *AccountService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hashPassword("resumeforge-placeholder")
	})
	if s.dummyHash != "" {
		_, _ = auth.VerifyPassword(password, s.dummyHash)
	}
}

// Logout ends the session for a cookie token. Unknown or malformed tokens
// are not an error.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	key, err := auth.SessionKey(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, key); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a cookie token to a live session.
// Returns ErrNotAuthenticated when the token is malformed, unknown or expired.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	key, err := auth.SessionKey(token)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	session, err := s.sessions.GetSession(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.IsExpired() {
		return nil, ErrNotAuthenticated
	}
	return session, nil
}
