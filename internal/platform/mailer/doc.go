// Package mailer delivers account emails. SMTPSender sends through an SMTP
// relay with gomail; LogSender only logs the message and is used when mail
// delivery is disabled in configuration.
package mailer
