// Package auth logs users in through an external OAuth provider and issues
// the session tokens the API accepts.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwise1/media_ranker/internal/model"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrMissingUID is returned when a provider identity has no uid.
var ErrMissingUID = errors.New("login failed: provider returned no uid")

// Identity is what a provider tells us about the person logging in.
type Identity struct {
	UID      string
	Provider string
	Name     string
	Email    string
}

type Store interface {
	FindUserByUID(ctx context.Context, provider, uid string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
}

type Service struct {
	store  Store
	tokens *TokenIssuer
	logger *zap.Logger
	now    func() time.Time
}

func NewService(store Store, tokens *TokenIssuer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		tokens: tokens,
		logger: logger.With(zap.String("component", "auth")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// BuildUser turns a provider identity into a new, unsaved user.
func BuildUser(id Identity, now time.Time) model.User {
	return model.User{
		ID:        uuid.New(),
		UID:       strings.TrimSpace(id.UID),
		Provider:  strings.ToLower(strings.TrimSpace(id.Provider)),
		Username:  strings.TrimSpace(id.Name),
		Email:     strings.TrimSpace(id.Email),
		CreatedAt: now,
	}
}

// Login finds the user for id, creating one on first login. The boolean
// reports whether a user was created.
func (s *Service) Login(ctx context.Context, id Identity) (model.User, bool, error) {
	uid := strings.TrimSpace(id.UID)
	provider := strings.ToLower(strings.TrimSpace(id.Provider))
	if uid == "" {
		return model.User{}, false, ErrMissingUID
	}

	existing, err := s.store.FindUserByUID(ctx, provider, uid)
	if err == nil {
		s.logger.Info("existing user logged in", zap.String("user_id", existing.ID.String()), zap.String("provider", provider))
		return existing, false, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.User{}, false, pkgerrors.Wrap(err, "find user")
	}

	user := BuildUser(id, s.now())
	if user.Username == "" {
		return model.User{}, false, model.FieldError("username", "can't be blank")
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) && verr.Has("uid") {
			// Another request created this user first.
			existing, findErr := s.store.FindUserByUID(ctx, provider, uid)
			if findErr == nil {
				return existing, false, nil
			}
		}
		return model.User{}, false, err
	}

	s.logger.Info("new user created", zap.String("user_id", user.ID.String()), zap.String("provider", provider))
	return user, true, nil
}

// Authenticate logs id in and issues a session token for the user.
func (s *Service) Authenticate(ctx context.Context, id Identity) (model.LoginResponse, error) {
	user, created, err := s.Login(ctx, id)
	if err != nil {
		return model.LoginResponse{}, err
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.LoginResponse{}, err
	}
	return model.LoginResponse{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
		Created:   created,
	}, nil
}

// CurrentUser resolves a session token to its user.
func (s *Service) CurrentUser(ctx context.Context, token string) (model.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return model.User{}, err
	}
	user, err := s.store.GetUser(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, ErrInvalidToken
	}
	return user, err
}
