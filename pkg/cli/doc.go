// Package cli implements the ops-notifier command line: a cobra root with a
// send command that wraps mail.Notifier for shell-driven batch jobs, and a
// version command.
package cli
