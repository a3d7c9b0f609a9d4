// SPDX-FileCopyrightText: 2026 INET Online Payment Service
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ConfigPathEnv overrides the default config file location when no explicit
// path is passed to Load.
const ConfigPathEnv = "OPS_NOTIFIER_CONFIG_PATH"

const defaultConfigPath = "./config.yaml"

// RecipientPolicy decides what happens when the configured recipient address
// is not a valid email address.
type RecipientPolicy string

const (
	// RecipientPolicySkip logs the invalid address and returns without dialing
	// the SMTP server.
	RecipientPolicySkip RecipientPolicy = "skip"
	// RecipientPolicyContinue logs the invalid address and still attempts the
	// send with an empty recipient list. The SMTP server is expected to reject
	// the message and that error is returned to the caller.
	RecipientPolicyContinue RecipientPolicy = "continue"
)

var ErrUnknownRecipientPolicy = errors.New("unknown invalid_recipient_policy")

type Config struct {
	// ErrorToMail is the administrative recipient of failure notifications.
	ErrorToMail string `yaml:"error_to_mail"`

	SMTPClient string `yaml:"smtp_Client"`
	// SMTPPort is kept as text and parsed when a notification is sent, so a
	// malformed value surfaces as a send error rather than a load error.
	SMTPPort               string `yaml:"smtp_Port"`
	SMTPEmailCredential    string `yaml:"smtp_Email_Credential"`
	SMTPPasswordCredential string `yaml:"smtp_Password_Credential"`

	// SMTPSSL enables implicit TLS for the SMTP session. Nil means enabled.
	// Set it to false explicitly to reproduce the legacy plaintext session.
	SMTPSSL *bool `yaml:"smtp_Ssl"`

	InvalidRecipientPolicy RecipientPolicy `yaml:"invalid_recipient_policy"`
}

// Defaults fills unset optional fields.
func (c *Config) Defaults() {
	if c.SMTPSSL == nil {
		ssl := true
		c.SMTPSSL = &ssl
	}
	if c.InvalidRecipientPolicy == "" {
		c.InvalidRecipientPolicy = RecipientPolicySkip
	}
}

// Validate checks the fields that can be checked at load time. The recipient
// address and the port are left to the sender.
func (c Config) Validate() error {
	switch c.InvalidRecipientPolicy {
	case "", RecipientPolicySkip, RecipientPolicyContinue:
		return nil
	default:
		return fmt.Errorf("%w: %q (expected %q or %q)", ErrUnknownRecipientPolicy,
			c.InvalidRecipientPolicy, RecipientPolicySkip, RecipientPolicyContinue)
	}
}

// UseSSL reports whether the SMTP session should use implicit TLS.
func (c Config) UseSSL() bool {
	return c.SMTPSSL == nil || *c.SMTPSSL
}

// Load loads the notifier configuration from a file path.
// If configPath is empty the OPS_NOTIFIER_CONFIG_PATH environment variable is
// consulted, then "./config.yaml". Defaults are applied and the result is
// validated before it is returned.
func Load(configPath ...string) (Config, error) {
	path := defaultConfigPath
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	} else if env := os.Getenv(ConfigPathEnv); env != "" {
		path = env
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open notifier config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %w", path, err)
	}

	config.Defaults()
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid notifier config %s: %w", path, err)
	}
	return config, nil
}
