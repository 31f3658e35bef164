package mail

import (
	"fmt"
	"strings"
	"time"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

func (m Message) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrInvalidMessage)
	}
	if strings.ContainsAny(m.To, "\r\n") || strings.ContainsAny(m.Subject, "\r\n") {
		return fmt.Errorf("%w: header contains a line break", ErrInvalidMessage)
	}
	return nil
}

// bytes renders m as a plain-text RFC 5322 message.
func (m Message) bytes(from string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + m.To + "\r\n")
	b.WriteString("Subject: " + m.Subject + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// VerificationCodeMessage is the email carrying a fresh verification code.
func VerificationCodeMessage(name, email string, code int, ttl time.Duration) Message {
	greeting := "Hello"
	if name = strings.TrimSpace(name); name != "" {
		greeting = "Hello " + name
	}

	body := fmt.Sprintf(
		"%s,\n\nYour Care Cube verification code is: %d\n\nThe code expires in %s and can be used once.\nIf you did not sign up, you can ignore this email.\n",
		greeting, code, ttl.Round(time.Minute),
	)

	return Message{
		To:      email,
		Subject: "Your Care Cube verification code",
		Body:    body,
	}
}
