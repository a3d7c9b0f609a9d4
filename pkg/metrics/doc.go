// Package metrics defines Prometheus metrics for the failure notifier,
// covering received notification requests, invalid recipients and mail
// delivery, and pushes them to a Pushgateway for short-lived batch runs.
package metrics
