package utils

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendEmail delivers an HTML mail through the configured SMTP relay.
func SendEmail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	from := os.Getenv("SMTP_EMAIL")
	pass := os.Getenv("SMTP_PASSWORD")
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "1025"
	}
	if from == "" {
		from = "librarian@email.com"
	}

	msg := ""
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	msg += fmt.Sprintf("From: %s\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "\r\n" + body

	// Local relays (mailhog etc.) take no auth.
	var auth smtp.Auth
	if pass != "" {
		auth = smtp.PlainAuth("", from, pass, host)
	}

	err := smtp.SendMail(host+":"+port, auth, from, []string{to}, []byte(msg))
	if err != nil {
		return fmt.Errorf("sending email failed: %v", err)
	}
	return nil
}
