package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"MyHome/internal/model"
	"MyHome/internal/pkg"

	"go.uber.org/zap"
)

// MailService 账户相关通知邮件，发送失败只记日志
type MailService struct {
	mailer     pkg.Mailer
	confirmURL string
	log        *zap.Logger
}

func NewMailService(mailer pkg.Mailer, confirmURL string, log *zap.Logger) *MailService {
	return &MailService{mailer: mailer, confirmURL: strings.TrimRight(confirmURL, "/"), log: log}
}

func (s *MailService) SendAccountCreated(ctx context.Context, user *model.User, token *model.SecurityToken) {
	link := fmt.Sprintf("%s/users/%s/email-confirm/%s", s.confirmURL, user.UserID, token.Token)
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Your MyHome account is ready. Confirm your email address: <a href="%s">%s</a></p><p>The link expires on %s.</p>`,
		html.EscapeString(user.Name), link, link, token.ExpiryDate.UTC().Format("2006-01-02 15:04 MST"))
	s.send(ctx, user.Email, "Confirm your MyHome account", body)
}

func (s *MailService) SendAccountConfirmed(ctx context.Context, user *model.User) {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Your email address has been confirmed.</p>`, html.EscapeString(user.Name))
	s.send(ctx, user.Email, "MyHome account confirmed", body)
}

func (s *MailService) SendPasswordRecoverCode(ctx context.Context, user *model.User, token *model.SecurityToken) {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Use this code to reset your password: <b style="font-size:18px;">%s</b></p><p>It expires on %s. Ignore this mail if you did not ask for it.</p>`,
		html.EscapeString(user.Name), token.Token, token.ExpiryDate.UTC().Format("2006-01-02 15:04 MST"))
	s.send(ctx, user.Email, "MyHome password reset", body)
}

func (s *MailService) SendPasswordChanged(ctx context.Context, user *model.User) {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>Your password was changed and you have been signed out everywhere.</p>`, html.EscapeString(user.Name))
	s.send(ctx, user.Email, "MyHome password changed", body)
}

func (s *MailService) send(ctx context.Context, to, subject, body string) {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.log.Warn("send mail failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
	}
}
