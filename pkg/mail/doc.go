// Package mail renders and delivers the administrative failure notification
// sent when the daily payment-report job cannot complete for a case. It owns
// the fixed Thai HTML template, recipient validation and a single SMTP
// delivery per request over gomail.
package mail
