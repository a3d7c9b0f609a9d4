package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inet-ops/ops-notifier/pkg/mail"
)

// Config wires the command tree to its environment. Zero values fall back to
// the process defaults.
type Config struct {
	Stdin        io.Reader
	OutputWriter io.Writer

	// Logger replaces the logger built from --debug.
	Logger *zap.Logger
	// DialerFactory replaces the gomail SMTP transport.
	DialerFactory mail.DialerFactory
}

func DefaultConfig() Config {
	return Config{
		Stdin:        os.Stdin,
		OutputWriter: os.Stdout,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.OutputWriter == nil {
		cfg.OutputWriter = os.Stdout
	}

	root := &cobra.Command{
		Use:           "ops-notifier",
		Short:         "Notify administrators about failed daily payment-report transmissions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(cfg.Stdin)
	root.SetOut(cfg.OutputWriter)
	root.SetErr(cfg.OutputWriter)

	root.AddCommand(
		NewSendCommand(cfg),
		NewVersionCommand(),
	)
	return root
}

// getEnvString returns the value of an environment variable or the provided default if not set.
func getEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvBool returns the value of an environment variable as a bool, or the provided default if not set.
// Valid true values are "true", "1", "yes" (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}
