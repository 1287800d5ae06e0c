package service

import (
	"crypto/tls"
	"fmt"
	"time"

	"social-backend/config"
	"social-backend/internal/util"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService sends transactional mail over SMTP. It is a no-op when no SMTP host is configured.
type EmailService struct {
	smtpHost    string
	smtpPort    int
	username    string
	password    string
	frontendURL string
}

func NewEmailService() *EmailService {
	frontend := ""
	if len(config.AppConfig.FrontendURLs) > 0 {
		frontend = config.AppConfig.FrontendURLs[0]
	}
	return &EmailService{
		smtpHost:    config.AppConfig.SMTPHost,
		smtpPort:    config.AppConfig.SMTPPort,
		username:    config.AppConfig.SMTPUsername,
		password:    config.AppConfig.SMTPPassword,
		frontendURL: frontend,
	}
}

func (s *EmailService) Enabled() bool {
	return s != nil && s.smtpHost != ""
}

// SendWelcomeEmail queues the welcome mail for a new account
func (s *EmailService) SendWelcomeEmail(email, name string) {
	if !s.Enabled() {
		return
	}

	subject := "Welcome!"
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your account is ready. Sign in at <a href="%s">%s</a> to find people to follow.</p>`,
		name, s.frontendURL, s.frontendURL)

	s.sendEmailAsync(email, subject, body)
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("failed to send email", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	util.Logger.Info("sending email", zap.String("to", to), zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	util.Logger.Info("email sent", zap.String("to", to))
	return nil
}
