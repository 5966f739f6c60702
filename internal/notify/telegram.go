// Push newly accepted postings and run status to a Telegram chat.

package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-kenyajobs/internal/source"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: init telegram bot: %w", err)
	}
	return &Bot{api: api, chatID: chatID}, nil
}

func (b *Bot) SendPosting(posting source.Posting) error {
	text := fmt.Sprintf(
		"🔥 <b>%s</b>\n"+
			"📍 %s\n"+
			"📅 Posted: %s\n"+
			"🔖 Source: %s\n"+
			"🔗 <a href=\"%s\">View Job</a>",
		posting.Title,
		posting.Location,
		posting.DatePosted,
		posting.Source,
		posting.Link,
	)
	return b.sendHTML(text)
}

func (b *Bot) SendStatus(message string) error {
	return b.sendHTML("ℹ️ " + message)
}

func (b *Bot) SendError(err error) error {
	return b.sendHTML(fmt.Sprintf("⚠️ <b>Aggregator Error</b>:\n%v", err))
}

func (b *Bot) sendHTML(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = "HTML"
	_, err := b.api.Send(msg)
	return err
}
