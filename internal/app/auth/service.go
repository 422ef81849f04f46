package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"neon-bets/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Storage is the slice of the store the auth service needs.
type Storage interface {
	CreateUser(ctx context.Context, email, username, passwordHash, role string, startingCredits decimal.Decimal) (*store.User, error)
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	CreateSession(ctx context.Context, userID, tokenHash string, ttl time.Duration) (*store.Session, error)
	GetUserBySessionToken(ctx context.Context, tokenHash string) (*store.User, error)
	DeleteSessionByToken(ctx context.Context, tokenHash string) error
}

type Service struct {
	store           Storage
	sessionTTL      time.Duration
	startingCredits decimal.Decimal
}

func NewService(s Storage, sessionTTL time.Duration, startingCredits decimal.Decimal) *Service {
	return &Service{store: s, sessionTTL: sessionTTL, startingCredits: startingCredits}
}

// Register creates an account seeded with the configured starting credits
// and opens a session for it.
func (s *Service) Register(ctx context.Context, email, username, password string) (*store.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if len(username) < 3 || len(username) > 32 {
		return nil, "", ErrInvalidUsername
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user, err := s.store.CreateUser(ctx, email, username, string(hash), store.RoleUser, s.startingCredits)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}
	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and opens a session. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSessionByToken(ctx, store.HashToken(token))
}

// Authenticate resolves a bearer token to its user, or store.ErrNotFound.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.User, error) {
	return s.store.GetUserBySessionToken(ctx, store.HashToken(token))
}

func (s *Service) openSession(ctx context.Context, userID string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)
	if _, err := s.store.CreateSession(ctx, userID, store.HashToken(token), s.sessionTTL); err != nil {
		return "", err
	}
	return token, nil
}
