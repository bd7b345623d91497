package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"

	"github.com/nholik/stock-sentinel/internal/transition"
)

// SMTPConfig carries the credentials and endpoint for email delivery.
type SMTPConfig struct {
	Host      string
	Port      int
	Sender    string
	Password  string
	Recipient string
}

// EmailNotifier delivers stock alerts over SMTP with STARTTLS.
type EmailNotifier struct {
	logger zerolog.Logger
	cfg    SMTPConfig
	send   func(*email.Email) error
}

// EmailOption customizes EmailNotifier behavior.
type EmailOption func(*EmailNotifier)

// WithEmailSender overrides the SMTP send function (for testing).
func WithEmailSender(send func(*email.Email) error) EmailOption {
	return func(n *EmailNotifier) {
		n.send = send
	}
}

// NewEmailNotifier creates an email notifier or a noop notifier when the
// sender or recipient is not configured.
func NewEmailNotifier(logger zerolog.Logger, cfg SMTPConfig, opts ...EmailOption) Notifier {
	if cfg.Sender == "" || cfg.Recipient == "" {
		return NewNoop(logger, "smtp sender/recipient not configured; email notifications disabled")
	}

	n := &EmailNotifier{logger: logger, cfg: cfg}
	n.send = n.sendSMTP
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name implements Notifier.
func (n *EmailNotifier) Name() string {
	return "email"
}

// Notify implements Notifier. Each transition is delivered as its own
// message; a single failed send fails the whole channel dispatch.
func (n *EmailNotifier) Notify(ctx context.Context, transitions []transition.Transition) error {
	for _, change := range transitions {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := buildEmail(n.cfg, change)
		if err := n.send(msg); err != nil {
			return fmt.Errorf("send email for %s: %w", change.ProductID, err)
		}
		n.logger.Debug().
			Str("product", change.ProductID).
			Str("kind", string(change.Kind)).
			Msg("email notification sent")
	}
	return nil
}

func (n *EmailNotifier) sendSMTP(msg *email.Email) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	auth := smtp.PlainAuth("", n.cfg.Sender, n.cfg.Password, n.cfg.Host)
	return msg.Send(addr, auth)
}

func buildEmail(cfg SMTPConfig, change transition.Transition) *email.Email {
	msg := email.NewEmail()
	msg.From = fmt.Sprintf("Stock Sentinel <%s>", cfg.Sender)
	msg.To = []string{cfg.Recipient}
	msg.Subject = emailSubject(change)
	msg.Text = []byte(emailBody(change))
	return msg
}

func emailSubject(change transition.Transition) string {
	if change.Kind == transition.KindRestock {
		return fmt.Sprintf("STOCK ALERT: %s is available!", change.Name)
	}
	return fmt.Sprintf("STOCK ALERT: %s is out of stock", change.Name)
}

func emailBody(change transition.Transition) string {
	var b strings.Builder
	if change.Kind == transition.KindRestock {
		fmt.Fprintf(&b, "The product '%s' is now available!\n\n", change.Name)
	} else {
		fmt.Fprintf(&b, "The product '%s' just went out of stock.\n\n", change.Name)
	}
	fmt.Fprintf(&b, "Product URL: %s\n", change.URL)
	fmt.Fprintf(&b, "Status: %s (was %s)\n", change.Current, change.Previous)
	if change.Price != "" {
		fmt.Fprintf(&b, "Price: %s\n", change.Price)
	}
	fmt.Fprintf(&b, "Checked at: %s\n", change.ObservedAt.Format(time.RFC3339))
	if change.Kind == transition.KindRestock {
		b.WriteString("\nVisit the URL to buy it now.\n")
	}
	return b.String()
}
