package mail

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/quotedprintable"
	"net"
	netmail "net/mail"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func TestNewGomailDialer(t *testing.T) {
	tests := []struct {
		name      string
		transport TransportConfig
	}{
		{
			name:      "Legacy plaintext session",
			transport: TransportConfig{Host: "smtp.example.com", Port: 25, Username: "mailer@example.com", Password: "pw", SSL: false},
		},
		{
			name:      "Implicit TLS on submission port",
			transport: TransportConfig{Host: "smtp.example.com", Port: 587, Username: "mailer@example.com", Password: "pw", SSL: true},
		},
		{
			name:      "SSL flag wins over port 465 guess",
			transport: TransportConfig{Host: "smtp.example.com", Port: 465, SSL: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := NewGomailDialer(tt.transport).(*gomail.Dialer)
			require.True(t, ok, "default factory should return a gomail dialer")
			assert.Equal(t, tt.transport.Host, d.Host)
			assert.Equal(t, tt.transport.Port, d.Port)
			assert.Equal(t, tt.transport.Username, d.Username)
			assert.Equal(t, tt.transport.Password, d.Password)
			assert.Equal(t, tt.transport.SSL, d.SSL)
			assert.Nil(t, d.Auth, "auth mechanism is negotiated by gomail from the server's AUTH extension")
		})
	}
}

func TestValidateRecipient(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{name: "plain address", addr: "ops-admin@example.com"},
		{name: "subaddress", addr: "ops+alerts@thaidotcompayment.co.th"},
		{name: "empty", addr: "", wantErr: true},
		{name: "missing domain", addr: "not-an-email", wantErr: true},
		{name: "two at signs", addr: "a@@example.com", wantErr: true},
		{name: "whitespace", addr: "ops admin@example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateRecipient(tt.addr)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidRecipient))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, got)
		})
	}
}

func TestTransportConfigLogFieldsRedactPassword(t *testing.T) {
	fields := TransportConfig{Host: "smtp.example.com", Port: 25, Username: "mailer@example.com", Password: "hunter2"}.LogFields()
	assert.NotContains(t, fmt.Sprint(fields...), "hunter2")
	assert.Contains(t, fields, redacted)
	assert.Contains(t, fields, "mailer@example.com")

	fields = TransportConfig{Host: "relay.internal", Port: 25}.LogFields()
	assert.NotContains(t, fields, redacted, "nothing to redact without a password")
}

type smtpTransaction struct {
	From  string
	Rcpts []string
	Data  []byte
}

// startTestSMTPServer starts a minimal SMTP server on a random port that
// accepts one connection and reports every completed transaction. It only
// implements the commands gomail issues against a server without STARTTLS
// or AUTH.
func startTestSMTPServer(t *testing.T) (host string, port int, received <-chan smtpTransaction, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	out := make(chan smtpTransaction, 4)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(10 * time.Second))
		r := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 localhost Test SMTP Service Ready\r\n")
		var tx smtpTransaction
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				fmt.Fprintf(conn, "250-localhost Hello\r\n250 OK\r\n")
			case strings.HasPrefix(line, "MAIL FROM:"):
				tx = smtpTransaction{From: strings.Trim(strings.TrimPrefix(line, "MAIL FROM:"), "<>")}
				fmt.Fprintf(conn, "250 OK\r\n")
			case strings.HasPrefix(line, "RCPT TO:"):
				tx.Rcpts = append(tx.Rcpts, strings.Trim(strings.TrimPrefix(line, "RCPT TO:"), "<>"))
				fmt.Fprintf(conn, "250 OK\r\n")
			case strings.HasPrefix(line, "DATA"):
				fmt.Fprintf(conn, "354 End data with <CR><LF>.<CR><LF>\r\n")
				var data bytes.Buffer
				for {
					dline, derr := r.ReadString('\n')
					if derr != nil {
						return
					}
					if strings.TrimRight(dline, "\r\n") == "." {
						break
					}
					data.WriteString(strings.TrimPrefix(dline, "."))
				}
				tx.Data = data.Bytes()
				out <- tx
				fmt.Fprintf(conn, "250 OK: queued as 12345\r\n")
			case strings.HasPrefix(line, "QUIT"):
				fmt.Fprintf(conn, "221 Bye\r\n")
				return
			default:
				fmt.Fprintf(conn, "250 OK\r\n")
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	stop = func() {
		ln.Close()
		wg.Wait()
	}
	return "127.0.0.1", addr.Port, out, stop
}

// decodeMessage returns the decoded subject and HTML body of a message
// written by gomail.
func decodeMessage(t *testing.T, raw []byte) (subject, body string, header netmail.Header) {
	t.Helper()
	m, err := netmail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err = new(mime.WordDecoder).DecodeHeader(m.Header.Get("Subject"))
	require.NoError(t, err)

	var r io.Reader = m.Body
	if strings.EqualFold(m.Header.Get("Content-Transfer-Encoding"), "quoted-printable") {
		r = quotedprintable.NewReader(m.Body)
	}
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return subject, string(b), m.Header
}

func TestGomailDialer_HappyPath(t *testing.T) {
	host, port, received, stop := startTestSMTPServer(t)
	defer stop()

	session, err := NewGomailDialer(TransportConfig{Host: host, Port: port, SSL: false}).Dial()
	require.NoError(t, err, "expected dial to succeed against test SMTP server")

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", SenderAddress, SenderName)
	msg.SetHeader("To", "ops-admin@example.com")
	msg.SetHeader("Subject", ErrorNotificationSubject("CASE-1"))
	msg.SetBody("text/html", "<ol>\n<li>Acc A</li>\n</ol>")

	require.NoError(t, gomail.Send(session, msg))
	require.NoError(t, session.Close())

	tx := <-received
	assert.Equal(t, SenderAddress, tx.From)
	assert.Equal(t, []string{"ops-admin@example.com"}, tx.Rcpts)

	subject, body, header := decodeMessage(t, tx.Data)
	assert.Equal(t, ErrorNotificationSubject("CASE-1"), subject)
	assert.Contains(t, body, "<li>Acc A</li>")
	assert.Contains(t, header.Get("Content-Type"), "text/html")
	assert.Contains(t, strings.ToUpper(header.Get("Content-Type")), "UTF-8")
}
