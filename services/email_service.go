package services

import (
	"fmt"
	"html"
	"sync"
	"time"

	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

// EmailService sends operational mail to the shop owners. It is disabled when
// no API key or no recipients are configured.
type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	es := &EmailService{
		logger: logger,
		cfg:    cfg,
	}
	if cfg.Email != nil && cfg.Email.ApiKey != "" {
		es.client = getEmailClient(cfg.Email.ApiKey)
	}
	return es
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

// Enabled reports whether alerts can be delivered
func (es *EmailService) Enabled() bool {
	return es.client != nil && len(es.cfg.Email.AlertRecipients) > 0
}

func (es *EmailService) SendEmail(to []string, subject string, body string) error {
	if es.client == nil {
		return fmt.Errorf("email client not configured")
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	_, err := es.client.Emails.Send(params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// SendLoginAlert notifies the configured recipients that an admin signed in
func (es *EmailService) SendLoginAlert(email string, at time.Time) error {
	if !es.Enabled() {
		return nil
	}

	subject := fmt.Sprintf("[%s] 관리자 로그인 알림", es.cfg.Server.AppName)
	body := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head><meta charset="UTF-8"></head>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #222;">
			<h2>%s 관리자 로그인</h2>
			<p><strong>%s</strong> 계정으로 관리자 페이지에 로그인했습니다.</p>
			<p>시각: %s</p>
			<p>본인이 아니라면 즉시 비밀번호를 변경해 주세요.</p>
		</body>
		</html>`,
		html.EscapeString(es.cfg.Server.AppName),
		html.EscapeString(email),
		at.Format(time.RFC3339),
	)

	return es.SendEmail(es.cfg.Email.AlertRecipients, subject, body)
}

// SendLoginAlertAsync sends the alert without blocking the sign-in response
func (es *EmailService) SendLoginAlertAsync(email string, at time.Time) {
	if es == nil || !es.Enabled() {
		return
	}

	go func() {
		if err := es.SendLoginAlert(email, at); err != nil {
			es.logger.Warn("Failed to send login alert", gecho.Field("error", err), gecho.Field("email", email))
		}
	}()
}
