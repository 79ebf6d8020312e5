package gateway

import (
	"context"
	"fmt"

	"fittrack/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramConfig struct {
	BotToken string
	Debug    bool
}

// TelegramNotifier messages users whose account is linked to Telegram.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(config TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	bot.Debug = config.Debug

	return &TelegramNotifier{bot: bot}, nil
}

func newTelegramNotifierWithBot(bot *tgbotapi.BotAPI) *TelegramNotifier {
	return &TelegramNotifier{bot: bot}
}

// NotifyMembership is a no-op for users without a linked Telegram account.
func (n *TelegramNotifier) NotifyMembership(ctx context.Context, user *model.User, payment *model.Payment) error {
	if user.TelegramID == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := fmt.Sprintf("Thank you for your payment, %s! Your %s membership is now active.", user.Name, payment.Plan)
	if _, err := n.bot.Send(tgbotapi.NewMessage(*user.TelegramID, text)); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}

	return nil
}
