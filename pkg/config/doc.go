// Package config loads the notifier configuration from a YAML file. The keys
// mirror the legacy application settings of the payment-report service so that
// existing deployments can reuse their values unchanged.
package config
