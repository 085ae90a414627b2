package service

import (
	"context"
	"errors"
	"time"

	"MyHome/internal/model"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SecurityTokenService struct {
	tokens     TokenStore
	confirmTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

func NewSecurityTokenService(tokens TokenStore, confirmTTL, resetTTL time.Duration) *SecurityTokenService {
	return &SecurityTokenService{tokens: tokens, confirmTTL: confirmTTL, resetTTL: resetTTL, now: time.Now}
}

func (s *SecurityTokenService) CreateEmailConfirmToken(ctx context.Context, user *model.User) (*model.SecurityToken, error) {
	return s.create(ctx, user.UserID, model.TokenTypeEmailConfirm, s.confirmTTL)
}

func (s *SecurityTokenService) CreatePasswordResetToken(ctx context.Context, user *model.User) (*model.SecurityToken, error) {
	return s.create(ctx, user.UserID, model.TokenTypeReset, s.resetTTL)
}

func (s *SecurityTokenService) create(ctx context.Context, ownerID string, typ model.SecurityTokenType, ttl time.Duration) (*model.SecurityToken, error) {
	now := s.now()
	t := &model.SecurityToken{
		TokenType:    typ,
		Token:        uuid.NewString(),
		CreationDate: now,
		ExpiryDate:   now.Add(ttl),
		TokenOwnerID: ownerID,
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UseToken 标记令牌已使用，已被使用过的令牌返回 400
func (s *SecurityTokenService) UseToken(ctx context.Context, token string) error {
	if err := s.tokens.MarkUsed(ctx, token); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badRequest("token already used")
		}
		return err
	}
	return nil
}

// Verify 令牌必须类型匹配、属于该用户、未使用且未过期，不改变令牌状态
func (s *SecurityTokenService) Verify(ctx context.Context, token string, typ model.SecurityTokenType, ownerID string) error {
	t, err := s.tokens.FindByToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return badRequest("invalid token")
	}
	if err != nil {
		return err
	}
	switch {
	case t.TokenType != typ, t.TokenOwnerID != ownerID:
		return badRequest("invalid token")
	case t.Used:
		return badRequest("token already used")
	case t.Expired(s.now()):
		return badRequest("token expired")
	}
	return nil
}

// Consume Verify 通过后标记为已使用
func (s *SecurityTokenService) Consume(ctx context.Context, token string, typ model.SecurityTokenType, ownerID string) error {
	if err := s.Verify(ctx, token, typ, ownerID); err != nil {
		return err
	}
	return s.UseToken(ctx, token)
}

// TokenPurger 定时清理过期或已使用的令牌
type TokenPurger struct {
	tokens TokenStore
	spec   string
	log    *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

func NewTokenPurger(tokens TokenStore, spec string, log *zap.Logger) *TokenPurger {
	return &TokenPurger{
		tokens: tokens,
		spec:   spec,
		log:    log,
		cron:   cron.New(),
		now:    time.Now,
	}
}

func (p *TokenPurger) Start() error {
	if _, err := p.cron.AddFunc(p.spec, func() {
		if _, err := p.PurgeOnce(context.Background()); err != nil {
			p.log.Error("purge security tokens failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop 返回的 ctx 在正在执行的任务结束后关闭
func (p *TokenPurger) Stop() context.Context {
	return p.cron.Stop()
}

func (p *TokenPurger) PurgeOnce(ctx context.Context) (int64, error) {
	n, err := p.tokens.DeleteStale(ctx, p.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.log.Info("purged security tokens", zap.Int64("count", n))
	}
	return n, nil
}
