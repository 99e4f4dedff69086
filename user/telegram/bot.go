package telegram

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/rs/zerolog/log"

	"github.com/drakos74/multilang-experiments/internal/api"
)

const (
	telegramBotToken = "TELEGRAM_BOT_TOKEN"
	telegramChatID   = "TELEGRAM_CHAT_ID"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot sends the experiment notifications to a telegram chat.
type Bot struct {
	bot    botAPI
	chatID int64
	lock   *sync.Mutex
}

// NewBot creates a new telegram bot from the environment.
func NewBot() (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(os.Getenv(telegramBotToken))
	if err != nil {
		return nil, fmt.Errorf("error creating bot: %w", err)
	}
	chatID, err := strconv.ParseInt(os.Getenv(telegramChatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing chat ID: %w", err)
	}
	bot.Buffer = 0
	return newBot(bot, chatID), nil
}

func newBot(bot botAPI, chatID int64) *Bot {
	return &Bot{
		bot:    bot,
		chatID: chatID,
		lock:   new(sync.Mutex),
	}
}

// Send sends the given message to the configured telegram chat.
func (b *Bot) Send(message *api.Message) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	msg := tgbotapi.NewMessage(b.chatID, message.Text)
	if message.Reply > 0 {
		msg.ReplyToMessageID = message.Reply
	}
	sent, err := b.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("could not send message: %w", err)
	}
	log.Debug().Int("id", sent.MessageID).Int64("chat", b.chatID).Msg("message sent")
	return nil
}
