package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthService coordinates registration, login, and refresh flows.
type AuthService struct {
	users      repository.UserRepository
	codec      *auth.Codec
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Codec      *auth.Codec
	Dispatcher events.Dispatcher
	BcryptCost int
}

// NewAuthService builds the service. The codec arrives fully constructed so
// the signing key is fixed before any request can reach these flows.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		codec:      deps.Codec,
		dispatcher: deps.Dispatcher,
		bcryptCost: deps.BcryptCost,
	}
}

// Register creates a new account and mints its first token pair.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, domain.TokenPair, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.TokenPair{}, apperrors.NewValidationError([]apperrors.FieldViolation{
			{Field: "email", Message: "email already registered"},
		})
	} else if err != pgx.ErrNoRows {
		return nil, domain.TokenPair{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleMember,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, domain.TokenPair{}, err
	}

	pair, err := s.mintPair(user.ID)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, user.Email, ""))
	return user, pair, nil
}

// Login authenticates by email and password and mints a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.publish(ctx, events.NewEvent(events.EventLoginFailed, "", email, "unknown email"))
			return nil, domain.TokenPair{}, apperrors.NewLoginUserNotFound(fmt.Sprintf("user id not found for %s", email))
		}
		return nil, domain.TokenPair{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.publish(ctx, events.NewEvent(events.EventLoginFailed, user.ID, email, "password mismatch"))
		return nil, domain.TokenPair{}, apperrors.NewPasswordIncorrect("password does not match")
	}

	pair, err := s.mintPair(user.ID)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	s.publish(ctx, events.NewEvent(events.EventLoginSucceeded, user.ID, email, ""))
	return user, pair, nil
}

// Refresh verifies a refresh token in one decode pass and mints an entirely
// new pair; it never extends the presented token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, domain.TokenPair, error) {
	claims, err := s.codec.ParseAndVerify(refreshToken)
	if err != nil {
		return nil, domain.TokenPair{}, apperrors.NewRefreshTokenInvalid(fmt.Sprintf("refresh token rejected: %v", err))
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.TokenPair{}, apperrors.NewRefreshTokenInvalid(fmt.Sprintf("refresh token user %s no longer exists", claims.UserID()))
		}
		return nil, domain.TokenPair{}, err
	}

	pair, err := s.mintPair(user.ID)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	s.publish(ctx, events.NewEvent(events.EventTokenRefreshed, user.ID, user.Email, ""))
	return user, pair, nil
}

// ListUsers returns every account, for administrative use.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *AuthService) mintPair(userID string) (domain.TokenPair, error) {
	access, accessExp, err := s.codec.GenerateAccessToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, refreshExp, err := s.codec.GenerateRefreshToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, event)
}
