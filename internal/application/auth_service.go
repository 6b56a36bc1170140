package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourrightpocket/charityround/internal/domain/entity"
	repo "github.com/yourrightpocket/charityround/internal/domain/repository"
	"github.com/yourrightpocket/charityround/pkg/apperrors"
	"github.com/yourrightpocket/charityround/pkg/helpers"
)

// AuthService handles registration, login and profile reads.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	u := &entity.User{
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Login validates credentials and issues the bearer token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Users.GetActiveByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", time.Time{}, apperrors.Auth("invalid credentials")
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", time.Time{}, apperrors.Auth("invalid credentials")
	}
	token, exp, err := s.JWT.GenerateToken(u.ID, u.Email)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, "", time.Time{}, apperrors.Internal(err)
	}
	return u, token, exp, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*entity.Profile, error) {
	return s.Users.GetProfile(ctx, userID)
}

func (s *AuthService) Deactivate(ctx context.Context, userID int64) error {
	return s.Users.Deactivate(ctx, userID)
}
