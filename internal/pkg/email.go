package pkg

import (
	"context"
	"crypto/tls"

	"MyHome/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer 发送一封 HTML 邮件
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &SMTPMailer{from: cfg.From, dialer: d}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}

// LogMailer 只记录日志，用于未配置 SMTP 的环境
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.Log.Info("mail not sent, smtp disabled",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_len", len(htmlBody)),
	)
	return nil
}
