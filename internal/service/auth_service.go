package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MyHome/internal/pkg"
	"MyHome/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 用户不存在时也做一次比较，让两种失败耗时接近
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("myhome-dummy-password"), bcrypt.DefaultCost)

type AuthService struct {
	users    UserStore
	sessions SessionStore
	jwt      *pkg.JWTEncoderDecoder
	ttl      time.Duration
}

func NewAuthService(st Stores, jwt *pkg.JWTEncoderDecoder, ttl time.Duration) *AuthService {
	return &AuthService{users: st.Users, sessions: st.Sessions, jwt: jwt, ttl: ttl}
}

// Login 校验密码，签发令牌并写入会话
func (s *AuthService) Login(ctx context.Context, email, password string) (pkg.AppJwt, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.AppJwt{}, "", err
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return pkg.AppJwt{}, "", fmt.Errorf("%w: wrong email or password", ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(password)) != nil {
		return pkg.AppJwt{}, "", fmt.Errorf("%w: wrong email or password", ErrUnauthorized)
	}

	claims, token, err := s.jwt.Encode(user.UserID)
	if err != nil {
		return pkg.AppJwt{}, "", err
	}
	if err := s.sessions.Save(ctx, user.UserID, token, s.ttl); err != nil {
		return pkg.AppJwt{}, "", err
	}
	return claims, token, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}

// Authenticate 令牌必须有效，并且是该用户当前的会话令牌
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.jwt.Decode(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	current, err := s.sessions.Get(ctx, claims.UserID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return "", fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	if err != nil {
		return "", err
	}
	if current != token {
		return "", fmt.Errorf("%w: session replaced", ErrUnauthorized)
	}
	return claims.UserID, nil
}
