// SPDX-FileCopyrightText: 2026 INET Online Payment Service
// SPDX-License-Identifier: Apache-2.0

package mail

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/inet-ops/ops-notifier/pkg/config"
	"github.com/inet-ops/ops-notifier/pkg/metrics"
	"github.com/inet-ops/ops-notifier/pkg/system"
)

// NotificationIDHeader carries the per-attempt ID that also tags every log
// line of the attempt.
const NotificationIDHeader = "X-Notification-ID"

// Notifier sends the failed payment-report notification to the configured
// administrator. It keeps no mutable state, so one Notifier may serve
// concurrent callers.
type Notifier struct {
	cfg       config.Config
	newDialer DialerFactory
	logger    *zap.SugaredLogger
}

// NewNotifier creates a Notifier that delivers through gomail.
func NewNotifier(cfg config.Config, logger *zap.SugaredLogger) *Notifier {
	cfg.Defaults()
	return &Notifier{
		cfg:       cfg,
		newDialer: NewGomailDialer,
		logger:    logger.Named("error-notification"),
	}
}

// WithDialerFactory replaces the SMTP transport.
func (n *Notifier) WithDialerFactory(f DialerFactory) *Notifier {
	n.newDialer = f
	return n
}

// SendErrorNotification renders the notification for caseNumber listing every
// non-empty line of accountNamesRaw and sends it once.
//
// An invalid recipient is logged and handled according to the configured
// RecipientPolicy: with RecipientPolicySkip nothing is sent and nil is
// returned. A malformed port is returned before any connection is made.
// Dial and SMTP errors are returned as is; there is no retry.
func (n *Notifier) SendErrorNotification(caseNumber, accountNamesRaw string) error {
	notificationID := uuid.NewString()
	log := n.logger.With(append(system.CaseFields(caseNumber), "notificationID", notificationID)...)
	metrics.NotificationRequests.Inc()

	log.Info("SendErrorNotification called for failed report transmission")
	log.Infow("Received account names", "accountNamesRaw", accountNamesRaw)

	accountNames := ParseAccountNames(accountNamesRaw)
	metrics.NotificationAccounts.Observe(float64(len(accountNames)))
	log.Infow("Parsed account names to send", "accountNames", accountNames, "count", len(accountNames))

	body, err := RenderErrorNotification(ErrorNotificationParams{AccountNames: accountNames})
	if err != nil {
		return fmt.Errorf("rendering error notification: %w", err)
	}

	env := envelope{
		from:    fmt.Sprintf("%s <%s>", SenderName, SenderAddress),
		subject: ErrorNotificationSubject(caseNumber),
		body:    body,
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", SenderAddress, SenderName)
	msg.SetHeader("Subject", env.subject)
	msg.SetHeader(NotificationIDHeader, notificationID)
	msg.SetBody("text/html", body)

	to, err := ValidateRecipient(n.cfg.ErrorToMail)
	if err != nil {
		policy := n.cfg.InvalidRecipientPolicy
		metrics.NotificationInvalidRecipient.WithLabelValues(string(policy)).Inc()
		log.Errorw("Invalid error_to_mail address: empty or wrong format", "error", err, "policy", policy)
		if policy != config.RecipientPolicyContinue {
			log.Warn("Error notification not sent: no valid recipient")
			return nil
		}
	} else {
		msg.SetHeader("To", to)
		env.to = []string{to}
	}

	port, err := strconv.Atoi(n.cfg.SMTPPort)
	if err != nil {
		metrics.MailSendFailure.WithLabelValues(n.cfg.SMTPClient, "config").Inc()
		return fmt.Errorf("%w %q: %w", ErrInvalidPort, n.cfg.SMTPPort, err)
	}

	transport := TransportConfig{
		Host:     n.cfg.SMTPClient,
		Port:     port,
		Username: n.cfg.SMTPEmailCredential,
		Password: n.cfg.SMTPPasswordCredential,
		SSL:      n.cfg.UseSSL(),
	}
	if !transport.SSL {
		log.Warnw("SMTP SSL is disabled, credentials are sent in plaintext", "host", transport.Host)
	}

	if err := n.deliver(log, transport, msg, env); err != nil {
		return err
	}

	log.Info("Notification email sent to admin successfully")
	log.Info("SendErrorNotification finished")
	return nil
}

// envelope keeps the readable message metadata for the audit log; gomail
// stores headers MIME-encoded.
type envelope struct {
	from    string
	to      []string
	subject string
	body    string
}

// deliver holds the SMTP session for exactly one send and closes it on every
// path once it has been opened.
func (n *Notifier) deliver(log *zap.SugaredLogger, transport TransportConfig, msg *gomail.Message, env envelope) error {
	session, err := n.newDialer(transport).Dial()
	if err != nil {
		metrics.MailSendFailure.WithLabelValues(transport.Host, "dial").Inc()
		return fmt.Errorf("dialing SMTP server %s:%d: %w", transport.Host, transport.Port, err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warnw("Error closing SMTP session", "error", cerr)
		}
	}()

	if err := gomail.Send(session, msg); err != nil {
		metrics.MailSendFailure.WithLabelValues(transport.Host, "send").Inc()
		return fmt.Errorf("sending error notification via %s:%d: %w", transport.Host, transport.Port, err)
	}
	metrics.MailSendSuccess.WithLabelValues(transport.Host).Inc()

	to := strings.Join(env.to, ", ")

	log.Infow("Message data",
		"from", env.from,
		"to", to,
		"bcc", "",
		"subject", env.subject,
		"body", env.body)
	log.Infow("SMTP data", append(transport.LogFields(),
		"from", SenderAddress,
		"to", to,
		"bcc", "",
		"subject", env.subject)...)
	return nil
}
