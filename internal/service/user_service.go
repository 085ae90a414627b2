package service

import (
	"context"
	"errors"
	"strings"

	"MyHome/internal/model"
	"MyHome/internal/pkg"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	users       UserStore
	communities CommunityStore
	sessions    SessionStore
	tokens      *SecurityTokenService
	mail        *MailService
	log         *zap.Logger
}

func NewUserService(st Stores, tokens *SecurityTokenService, mail *MailService, log *zap.Logger) *UserService {
	return &UserService{
		users:       st.Users,
		communities: st.Communities,
		sessions:    st.Sessions,
		tokens:      tokens,
		mail:        mail,
		log:         log,
	}
}

// UserDetails 用户及其管理的社区
type UserDetails struct {
	User         *model.User
	CommunityIDs []string
}

// SignUp 注册，密码 bcrypt 加密，并发送邮箱确认链接
func (s *UserService) SignUp(ctx context.Context, name, email, password string) (*model.User, error) {
	name, email = strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, badRequest("name, email and password are required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, storeErr(gorm.ErrDuplicatedKey, "email")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:            uuid.NewString(),
		Name:              name,
		Email:             email,
		EncryptedPassword: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeErr(err, "email")
	}

	token, err := s.tokens.CreateEmailConfirmToken(ctx, user)
	if err != nil {
		// 用户已创建，可以通过 resend 重新获取确认邮件
		s.log.Error("create email confirm token failed", zap.String("user_id", user.UserID), zap.Error(err))
		return user, nil
	}
	s.mail.SendAccountCreated(ctx, user, token)
	return user, nil
}

func (s *UserService) ListAll(ctx context.Context, page pkg.Page) ([]model.User, error) {
	return s.users.List(ctx, page.Offset(), page.Limit())
}

func (s *UserService) GetUserDetails(ctx context.Context, userID string) (*UserDetails, error) {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	ids, err := s.communities.CommunityIDsOfAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserDetails{User: user, CommunityIDs: ids}, nil
}

// RequestResetPassword 发送重置密码令牌
func (s *UserService) RequestResetPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return badRequest("unknown email")
	}
	if err != nil {
		return err
	}
	token, err := s.tokens.CreatePasswordResetToken(ctx, user)
	if err != nil {
		return err
	}
	s.mail.SendPasswordRecoverCode(ctx, user, token)
	return nil
}

// ResetPassword 校验重置令牌后修改密码，并让已有登录失效
func (s *UserService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return badRequest("token and new password are required")
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return badRequest("unknown email")
	}
	if err != nil {
		return err
	}
	if err := s.tokens.Verify(ctx, token, model.TokenTypeReset, user.UserID); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	// 密码写入成功后才作废令牌，失败时令牌仍可重试
	if err := s.users.UpdatePassword(ctx, user.UserID, string(hash)); err != nil {
		return storeErr(err, "user")
	}
	if err := s.tokens.UseToken(ctx, token); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, user.UserID); err != nil {
		return err
	}
	s.mail.SendPasswordChanged(ctx, user)
	return nil
}

func (s *UserService) ConfirmEmail(ctx context.Context, userID, token string) error {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return storeErr(err, "user")
	}
	if err := s.tokens.Consume(ctx, token, model.TokenTypeEmailConfirm, userID); err != nil {
		return err
	}
	if user.EmailConfirmed {
		return nil
	}
	if err := s.users.ConfirmEmail(ctx, userID); err != nil {
		return storeErr(err, "user")
	}
	s.mail.SendAccountConfirmed(ctx, user)
	return nil
}

// ResendConfirmEmail 已确认的用户返回 400
func (s *UserService) ResendConfirmEmail(ctx context.Context, userID string) error {
	user, err := s.users.FindByUserID(ctx, userID)
	if err != nil {
		return storeErr(err, "user")
	}
	if user.EmailConfirmed {
		return badRequest("email already confirmed")
	}
	token, err := s.tokens.CreateEmailConfirmToken(ctx, user)
	if err != nil {
		return err
	}
	s.mail.SendAccountCreated(ctx, user, token)
	return nil
}
