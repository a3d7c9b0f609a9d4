package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/inet-ops/ops-notifier/pkg/config"
	"github.com/inet-ops/ops-notifier/pkg/mail"
	"github.com/inet-ops/ops-notifier/pkg/metrics"
	"github.com/inet-ops/ops-notifier/pkg/system"
)

const pushJobName = "ops-notifier"

var errMissingCase = errors.New("--case is required")

type sendOptions struct {
	caseNumber   string
	accountsFile string
	configPath   string
	pushgateway  string
	debug        bool
}

func NewSendCommand(cfg Config) *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the failed payment-report notification for a case",
		Long: "Reads a newline-delimited list of account names from --accounts-file " +
			"(or stdin when the file is \"-\") and mails the failure notification " +
			"to the configured error_to_mail address.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.caseNumber, "case", getEnvString("OPS_NOTIFIER_CASE", ""), "Case number the notification refers to")
	cmd.Flags().StringVarP(&opts.accountsFile, "accounts-file", "f", "-", "File with one account name per line, \"-\" for stdin")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file (default $"+config.ConfigPathEnv+" or ./config.yaml)")
	cmd.Flags().StringVar(&opts.pushgateway, "pushgateway", getEnvString("OPS_NOTIFIER_PUSHGATEWAY", ""), "Prometheus Pushgateway URL, metrics are pushed when set")
	cmd.Flags().BoolVar(&opts.debug, "debug", getEnvBool("OPS_NOTIFIER_DEBUG", false), "Enable debug level logging")

	return cmd
}

func runSend(cmd *cobra.Command, cfg Config, opts *sendOptions) error {
	if opts.caseNumber == "" {
		return errMissingCase
	}

	logger := cfg.Logger
	if logger == nil {
		var err error
		if logger, err = system.NewLogger(opts.debug); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}
	log := logger.Sugar()

	notifierCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	accounts, err := readAccounts(cmd.InOrStdin(), opts.accountsFile)
	if err != nil {
		return err
	}

	notifier := mail.NewNotifier(notifierCfg, log)
	if cfg.DialerFactory != nil {
		notifier = notifier.WithDialerFactory(cfg.DialerFactory)
	}

	sendErr := notifier.SendErrorNotification(opts.caseNumber, accounts)

	if opts.pushgateway != "" {
		if err := metrics.Push(opts.pushgateway, pushJobName); err != nil {
			log.Warnw("Failed to push notifier metrics", append(system.CaseFields(opts.caseNumber), "error", err)...)
		}
	}

	if sendErr != nil {
		return fmt.Errorf("case %s: %w", opts.caseNumber, sendErr)
	}
	return nil
}

func readAccounts(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading account names from stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading account names from %s: %w", path, err)
	}
	return string(b), nil
}
