package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/nholik/stock-sentinel/internal/transition"
)

// telegramSender is the subset of the bot API used for alerts.
type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier delivers stock alerts through a Telegram bot.
type TelegramNotifier struct {
	logger zerolog.Logger
	chatID int64
	sender telegramSender
}

// TelegramOption customizes TelegramNotifier behavior.
type TelegramOption func(*TelegramNotifier)

// WithTelegramSender overrides the bot API client (for testing).
func WithTelegramSender(sender telegramSender) TelegramOption {
	return func(n *TelegramNotifier) {
		n.sender = sender
	}
}

// NewTelegramNotifier creates a Telegram notifier or a noop notifier when the
// token or chat id is not configured. Constructing the bot client verifies
// the token against the Telegram API.
func NewTelegramNotifier(logger zerolog.Logger, token string, chatID int64, opts ...TelegramOption) (Notifier, error) {
	if token == "" || chatID == 0 {
		return NewNoop(logger, "telegram token/chat not configured; telegram notifications disabled"), nil
	}

	n := &TelegramNotifier{logger: logger, chatID: chatID}
	for _, opt := range opts {
		opt(n)
	}

	if n.sender == nil {
		bot, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		n.sender = bot
	}

	return n, nil
}

// Name implements Notifier.
func (n *TelegramNotifier) Name() string {
	return "telegram"
}

// Notify implements Notifier.
func (n *TelegramNotifier) Notify(ctx context.Context, transitions []transition.Transition) error {
	for _, change := range transitions {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(n.chatID, buildTelegramText(change))
		msg.ParseMode = tgbotapi.ModeMarkdown

		if _, err := n.sender.Send(msg); err != nil {
			return fmt.Errorf("send telegram message for %s: %w", change.ProductID, err)
		}
		n.logger.Debug().
			Str("product", change.ProductID).
			Str("kind", string(change.Kind)).
			Msg("telegram notification sent")
	}
	return nil
}

func buildTelegramText(change transition.Transition) string {
	var b strings.Builder
	b.WriteString("🚨 *STOCK ALERT*\n\n")
	if change.Kind == transition.KindRestock {
		fmt.Fprintf(&b, "✅ *%s* is now available!\n\n", change.Name)
		fmt.Fprintf(&b, "🛒 [Buy Now](%s)\n", change.URL)
	} else {
		fmt.Fprintf(&b, "❌ *%s* is out of stock\n\n", change.Name)
		fmt.Fprintf(&b, "🔗 [Product page](%s)\n", change.URL)
	}
	if change.Price != "" {
		fmt.Fprintf(&b, "💰 Price: %s\n", change.Price)
	}
	fmt.Fprintf(&b, "⏰ %s", change.ObservedAt.Format(time.RFC3339))
	return b.String()
}
