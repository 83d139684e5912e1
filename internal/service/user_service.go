package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"order-dashboard/internal/entity"
	"order-dashboard/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// JwtCustomClaims carries the user identity and role for route gating.
type JwtCustomClaims struct {
	Name string          `json:"name"`
	Role entity.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type UserService struct {
	repo      repository.UserRepository
	rdb       *redis.Client
	jwtSecret []byte
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo repository.UserRepository, rdb *redis.Client, jwtSecret []byte) *UserService {
	return &UserService{repo: repo, rdb: rdb, jwtSecret: jwtSecret}
}

// Login validates credentials and issues a signed JWT carrying the user
// role. The session is also stored in redis with a 24h TTL so it can be
// revoked server-side.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmailAndPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	claims := &JwtCustomClaims{
		Name: user.Username,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, sessionKey(email), t, time.Hour*24).Err(); err != nil {
			return "", err
		}
	}

	return t, nil
}

// ValidateSession checks that the session for the email still exists.
func (s *UserService) ValidateSession(ctx context.Context, email string) (string, error) {
	if s.rdb == nil {
		return "", fmt.Errorf("session store unavailable")
	}

	token, err := s.rdb.Get(ctx, sessionKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("session not found")
		}
		return "", err
	}

	return token, nil
}

// Logout drops the stored session.
func (s *UserService) Logout(ctx context.Context, email string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(email)).Err()
}

func (s *UserService) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	if user.Role != entity.RoleAdmin && user.Role != entity.RoleModerator {
		return nil, &ValidationError{Field: "role", Msg: "Role must be admin or moderator"}
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	return created, nil
}

func sessionKey(email string) string {
	return fmt.Sprintf("session:%s", email)
}
