package users

import (
	"context"
	"time"

	"tunecrate/internal/store"
)

const (
	// SessionTTL bounds a session created without "stay signed in".
	SessionTTL = 12 * time.Hour
	// RememberTTL bounds a session created with "stay signed in".
	RememberTTL = 30 * 24 * time.Hour
)

// Store captures the persistence needs for user workflows.
type Store interface {
	CreateUser(ctx context.Context, email, username, password string) (store.User, error)
	Authenticate(ctx context.Context, email, password string) (store.User, error)
	UserByID(ctx context.Context, id int64) (store.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateSession(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	UserIDByToken(ctx context.Context, token string) (int64, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service coordinates user registration and sessions.
type Service interface {
	Register(ctx context.Context, email, username, password string) (store.User, error)
	Login(ctx context.Context, email, password string, remember bool) (store.User, string, error)
	Logout(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (store.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Register(ctx context.Context, email, username, password string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.CreateUser(ctx, email, username, password)
}

// Login authenticates and opens a session. remember selects the long TTL.
func (s *service) Login(ctx context.Context, email, password string, remember bool) (store.User, string, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, "", err
	}

	user, err := s.store.Authenticate(ctx, email, password)
	if err != nil {
		return store.User{}, "", err
	}

	ttl := SessionTTL
	if remember {
		ttl = RememberTTL
	}
	token, err := s.store.CreateSession(ctx, user.ID, ttl)
	if err != nil {
		return store.User{}, "", err
	}
	return user, token, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSession(ctx, token)
}

// CurrentUser resolves a session token. Unknown or expired tokens yield
// store.ErrUnauthorized.
func (s *service) CurrentUser(ctx context.Context, token string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}

	id, err := s.store.UserIDByToken(ctx, token)
	if err != nil {
		return store.User{}, err
	}
	return s.store.UserByID(ctx, id)
}

func (s *service) UsernameExists(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.store.UsernameExists(ctx, username)
}

func (s *service) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.store.EmailExists(ctx, email)
}
