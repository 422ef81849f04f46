package auth

import (
	"context"
	"testing"
	"time"

	"neon-bets/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	usersByEmail map[string]*store.User
	sessions     map[string]string // token hash -> user id
	created      []*store.User
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		usersByEmail: map[string]*store.User{},
		sessions:     map[string]string{},
	}
}

func (f *fakeStorage) CreateUser(_ context.Context, email, username, passwordHash, role string, startingCredits decimal.Decimal) (*store.User, error) {
	if _, ok := f.usersByEmail[email]; ok {
		return nil, store.ErrDuplicate
	}
	u := &store.User{
		ID:           store.NewID(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Balance:      startingCredits,
	}
	f.usersByEmail[email] = u
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeStorage) GetUserByEmail(_ context.Context, email string) (*store.User, error) {
	u, ok := f.usersByEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStorage) CreateSession(_ context.Context, userID, tokenHash string, _ time.Duration) (*store.Session, error) {
	f.sessions[tokenHash] = userID
	return &store.Session{ID: store.NewID(), UserID: userID, TokenHash: tokenHash}, nil
}

func (f *fakeStorage) GetUserBySessionToken(_ context.Context, tokenHash string) (*store.User, error) {
	userID, ok := f.sessions[tokenHash]
	if !ok {
		return nil, store.ErrNotFound
	}
	for _, u := range f.usersByEmail {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStorage) DeleteSessionByToken(_ context.Context, tokenHash string) error {
	delete(f.sessions, tokenHash)
	return nil
}

func newTestService(f *fakeStorage) *Service {
	return NewService(f, time.Hour, decimal.NewFromInt(1000))
}

func TestRegisterSeedsCreditsAndOpensSession(t *testing.T) {
	f := newFakeStorage()
	svc := newTestService(f)

	user, token, err := svc.Register(context.Background(), "Player@Example.com", "player1", "hunter2secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "player@example.com", user.Email)
	assert.Equal(t, store.RoleUser, user.Role)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(1000)))

	got, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeStorage())
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		username string
		password string
		want     error
	}{
		{"bad email", "not-an-email", "player1", "hunter2secret", ErrInvalidEmail},
		{"short username", "a@example.com", "ab", "hunter2secret", ErrInvalidUsername},
		{"short password", "a@example.com", "player1", "short", ErrWeakPassword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.email, tc.username, tc.password)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeStorage())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@example.com", "player1", "hunter2secret")
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, "a@example.com", "player2", "hunter2secret")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginChecksPassword(t *testing.T) {
	f := newFakeStorage()
	svc := newTestService(f)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "a@example.com", "player1", "hunter2secret")
	require.NoError(t, err)

	_, token, err := svc.Login(ctx, "a@example.com", "hunter2secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "a@example.com", "wrongpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email reads the same as a wrong password.
	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter2secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	f := newFakeStorage()
	svc := newTestService(f)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "a@example.com", "player1", "hunter2secret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
