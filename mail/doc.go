// Package mail renders and delivers the account emails: signup
// verification, password reset and one-time codes.
//
// Mailer satisfies both goIdentity.Mailer and mfa.Mailer. Bodies are HTML
// templates, embedded by default and overridable per deployment; delivery
// goes through a Sender, normally an SMTPSender.
package mail
