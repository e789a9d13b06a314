package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/carvanta/carvanta-backend/config"
	"github.com/carvanta/carvanta-backend/pkg/logger"
)

// SMTPMailer sends transactional mail over plain-auth SMTP. When no host
// or credentials are configured it logs the message instead, so local
// development works without a mail account.
type SMTPMailer struct {
	cfg *config.SMTPConfig
}

func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) configured() bool {
	return m.cfg.Host != "" && m.cfg.Username != "" && m.cfg.Password != ""
}

// SendPasswordResetOTP delivers the 6-digit password reset code.
func (m *SMTPMailer) SendPasswordResetOTP(to, otp string) error {
	subject := "[Carvanta] Password Reset Code"
	body := fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px;">
		<h1 style="color: #333; margin-bottom: 20px;">Password Reset</h1>
		<p style="color: #666; line-height: 1.6; margin-bottom: 30px;">
			A password reset was requested for your Carvanta account.<br>
			Enter the code below to continue.
		</p>
		<div style="background-color: #f8f9fa; padding: 30px; border-radius: 8px; text-align: center; margin-bottom: 30px;">
			<h2 style="color: #333; margin: 0; font-size: 36px; letter-spacing: 4px;">%s</h2>
		</div>
		<p style="color: #999; font-size: 14px; margin-bottom: 10px;">
			* This code is valid for 10 minutes.
		</p>
		<p style="color: #999; font-size: 14px;">
			* If you did not request this, you can safely ignore this email.
		</p>
	</div>
</body>
</html>
`, otp)

	return m.send(to, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if !m.configured() {
		logger.Info("SMTP not configured, logging mail instead", map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return nil
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.From, to, subject, body,
	))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := m.cfg.Host + ":" + m.cfg.Port

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, message); err != nil {
		logger.Error("Failed to send mail", err, map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return fmt.Errorf("failed to send mail: %w", err)
	}

	logger.Info("Mail sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}
