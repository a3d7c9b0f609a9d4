package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	NotificationRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ops_notifier_requests_total",
		Help: "Total number of failure notifications requested",
	})
	// Labelled by the configured policy so skipped and degraded sends can be told apart.
	NotificationInvalidRecipient = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ops_notifier_invalid_recipient_total",
		Help: "Total number of notifications whose configured recipient failed address validation",
	}, []string{"policy"})
	NotificationAccounts = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ops_notifier_accounts_per_notification",
		Help:    "Number of account names listed in a failure notification",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
	})

	// Mail metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ops_notifier_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"host"})
	// stage is one of "config", "dial" or "send".
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ops_notifier_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"host", "stage"})
)

func init() {
	prometheus.MustRegister(NotificationRequests)
	prometheus.MustRegister(NotificationInvalidRecipient)
	prometheus.MustRegister(NotificationAccounts)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
}

// Push sends the notifier metrics to a Prometheus Pushgateway under the given
// job name. It is meant to be called once at the end of a CLI run.
func Push(gatewayURL, job string) error {
	err := push.New(gatewayURL, job).
		Collector(NotificationRequests).
		Collector(NotificationInvalidRecipient).
		Collector(NotificationAccounts).
		Collector(MailSendSuccess).
		Collector(MailSendFailure).
		Push()
	if err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
