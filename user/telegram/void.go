package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

// Void is a bot api that cannot reach telegram.
type Void struct {
}

func (v Void) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, fmt.Errorf("could not send message")
}
