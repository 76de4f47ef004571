// Package auth checks credentials and issues access tokens.
package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"pixpay/internal/models"
	"pixpay/internal/repositories"
	"pixpay/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Session struct {
	User        *models.User
	AccessToken string
	ExpiresAt   time.Time
}

type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type service struct {
	users  repositories.UserRepository
	tokens *utils.TokenIssuer
}

func NewService(users repositories.UserRepository, tokens *utils.TokenIssuer) Service {
	if users == nil {
		panic("user repository is required")
	}
	if tokens == nil {
		panic("token issuer is required")
	}
	return &service{users: users, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			log.Printf("[auth] login failed: unknown email %s", email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("[auth] login failed: wrong password for user %d", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *service) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// HashPassword hashes a plain password with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
