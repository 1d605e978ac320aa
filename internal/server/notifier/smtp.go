package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPNotifier sends OTP mail through a plain-auth SMTP relay.
// smtp.SendMail upgrades the connection with STARTTLS when the server
// offers it.
type SMTPNotifier struct {
	addr     string // host:port
	from     string
	password string

	// test seam for smtp.SendMail
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(addr, from, password string) *SMTPNotifier {
	return &SMTPNotifier{
		addr:     addr,
		from:     from,
		password: password,
		send:     smtp.SendMail,
	}
}

func (n *SMTPNotifier) SendOTP(ctx context.Context, recipient string, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	host := n.addr
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	auth := smtp.PlainAuth("", n.from, n.password, host)

	msg := buildOTPMessage(n.from, recipient, code)
	if err := n.send(n.addr, auth, n.from, []string{recipient}, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func buildOTPMessage(from, to, code string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Your OTP Code\r\n")
	b.WriteString("\r\n")
	b.WriteString("Your OTP is " + code + "\r\n")
	return []byte(b.String())
}
