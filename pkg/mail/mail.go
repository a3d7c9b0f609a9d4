// SPDX-FileCopyrightText: 2026 INET Online Payment Service
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/gomail.v2"
)

const redacted = "[REDACTED]"

var (
	// ErrInvalidRecipient is returned by ValidateRecipient for an empty or
	// malformed address.
	ErrInvalidRecipient = errors.New("invalid recipient address")
	// ErrInvalidPort wraps the parse error of a malformed smtp_Port value.
	ErrInvalidPort = errors.New("invalid smtp port")
)

var validate = validator.New()

// Dialer opens an SMTP session. *gomail.Dialer satisfies it; tests swap in
// fakes to observe session handling without a network.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

// DialerFactory builds a Dialer for a single notification attempt.
type DialerFactory func(TransportConfig) Dialer

// TransportConfig holds the parameters of one SMTP session.
type TransportConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	SSL      bool
}

// LogFields returns key/value pairs describing the transport for
// SugaredLogger.Infow. The password is never included.
func (t TransportConfig) LogFields() []interface{} {
	password := ""
	if t.Password != "" {
		password = redacted
	}
	return []interface{}{
		"host", t.Host,
		"port", t.Port,
		"ssl", t.SSL,
		"username", t.Username,
		"password", password,
	}
}

// NewGomailDialer is the default DialerFactory.
func NewGomailDialer(t TransportConfig) Dialer {
	d := gomail.NewDialer(t.Host, t.Port, t.Username, t.Password)
	// NewDialer guesses SSL from port 465; the configured flag always wins.
	d.SSL = t.SSL
	return d
}

// ValidateRecipient checks that addr is a syntactically valid email address
// and returns it unchanged. The error wraps ErrInvalidRecipient.
func ValidateRecipient(addr string) (string, error) {
	if err := validate.Var(addr, "required,email"); err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrInvalidRecipient, addr, err)
	}
	return addr, nil
}
