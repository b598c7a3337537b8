package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for email links (e.g., "http://localhost:8080")
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

func (s *SMTPEmailService) SendWelcomeEmail(to, name string) error {
	subject := "Welcome to Luminara"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Welcome, %s!</h2>
			<p>Your spiritual journey begins now. Your free trial includes tarot readings, numerology reports and voice guidance.</p>
			<p><a href="%s/app">Start your first reading</a></p>
		</body>
		</html>
	`, name, s.config.BaseURL)

	plainBody := fmt.Sprintf(`
Welcome, %s!

Your spiritual journey begins now. Your free trial includes tarot readings, numerology reports and voice guidance.

Start your first reading: %s/app
	`, name, s.config.BaseURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendSubscriptionChangedEmail(to, planName string) error {
	subject := "Your Subscription Has Changed"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Subscription Updated</h2>
			<p>Your subscription is now on the <strong>%s</strong> plan. Your new limits take effect immediately.</p>
			<p>If you didn't make this change, please contact support.</p>
		</body>
		</html>
	`, planName)

	plainBody := fmt.Sprintf(`
Subscription Updated

Your subscription is now on the %s plan. Your new limits take effect immediately.

If you didn't make this change, please contact support.
	`, planName)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) SendPaymentFailedEmail(to string) error {
	subject := "Payment Failed"
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>We Couldn't Process Your Payment</h2>
			<p>Your latest payment failed. Please update your payment method to keep your plan's readings and voice guidance.</p>
			<p><a href="%s/billing">Update payment method</a></p>
		</body>
		</html>
	`, s.config.BaseURL)

	plainBody := fmt.Sprintf(`
We Couldn't Process Your Payment

Your latest payment failed. Please update your payment method to keep your plan's readings and voice guidance.

Update payment method: %s/billing
	`, s.config.BaseURL)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
