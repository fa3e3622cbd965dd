// Package mailer notifies the operator about accepted webmentions over SMTP.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// A Mailer sends fixed-format notification mail to the operator. The
// operator's account is both sender and recipient.
type Mailer struct {
	host     string
	username string
	password string
	logger   *slog.Logger
}

// New returns a Mailer for the given SMTP relay.
func New(host, username, password string, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		host:     host,
		username: username,
		password: password,
		logger:   logger,
	}
}

// MentionReceived mails the operator about an accepted mention. A failed
// send is logged and swallowed; notification mail is never worth an error.
func (m *Mailer) MentionReceived(ctx context.Context, source, target string) {
	msg := mail.NewMsg()
	if err := msg.From(m.username); err != nil {
		m.logger.Error("notify: invalid sender", "address", m.username, "error", err)
		return
	}
	if err := msg.To(m.username); err != nil {
		m.logger.Error("notify: invalid recipient", "address", m.username, "error", err)
		return
	}
	subject, body := composeMention(source, target)
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.host,
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
	)
	if err != nil {
		m.logger.Error("notify: smtp client", "host", m.host, "error", err)
		return
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Error("notify: send failed", "host", m.host, "error", err)
		return
	}
	m.logger.Info("operator notified", "source", source, "target", target)
}

// composeMention renders the fixed-format notification.
func composeMention(source, target string) (subject, body string) {
	subject = "New webmention"
	body = fmt.Sprintf("A new webmention was received.\n\nSource: %s\nTarget: %s\n", source, target)
	return subject, body
}
