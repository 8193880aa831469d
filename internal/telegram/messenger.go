// Package telegram talks to the Telegram Bot API: outgoing messages, the
// login widget check and the update listener that learns chat IDs.
package telegram

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"alcyxob/fitcoach/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrDisabled is returned by every send when no usable bot token is configured.
var ErrDisabled = errors.New("telegram messaging is disabled")

// Parse modes accepted by sendMessage.
const (
	ParseModeMarkdown = tgbotapi.ModeMarkdown
	ParseModeHTML     = tgbotapi.ModeHTML
)

// Button is one inline reply control. Exactly one of CallbackData or URL
// should be set.
type Button struct {
	Text         string
	CallbackData string
	URL          string
}

// Message is an outgoing chat message.
type Message struct {
	ChatID    int64
	Text      string
	Buttons   [][]Button
	ParseMode string
}

// SendResult mirrors the Bot API answer: ok flag plus the error description.
type SendResult struct {
	OK          bool
	Description string
	MessageID   int
}

// Messenger sends chat messages.
type Messenger interface {
	Send(ctx context.Context, msg Message) (SendResult, error)
}

// NewMessenger connects to the Bot API. Without a token, or when the Bot API
// rejects the token, it logs and returns a messenger that refuses to send, so
// the rest of the app keeps working. The BotAPI is nil in that case.
func NewMessenger(cfg config.TelegramConfig) (Messenger, *tgbotapi.BotAPI) {
	if !cfg.Enabled() {
		log.Println("WARN: telegram.bot_token is not set, message sending is disabled")
		return Disabled{}, nil
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, endpoint, &http.Client{})
	if err != nil {
		log.Printf("ERROR: Telegram bot authorization failed, message sending is disabled: %v", err)
		return Disabled{}, nil
	}
	log.Printf("INFO: Telegram bot authorized as @%s", api.Self.UserName)
	if want := strings.TrimPrefix(cfg.BotUsername, "@"); want != "" && !strings.EqualFold(want, api.Self.UserName) {
		log.Printf("WARN: telegram.bot_username is @%s but the token belongs to @%s", want, api.Self.UserName)
	}
	return NewBotMessenger(api), api
}

// BotMessenger sends through an authorized tgbotapi client.
type BotMessenger struct {
	api *tgbotapi.BotAPI
}

func NewBotMessenger(api *tgbotapi.BotAPI) *BotMessenger {
	return &BotMessenger{api: api}
}

// Send posts a sendMessage call. An API-level rejection is reported as a
// SendResult with OK false and a nil error; transport failures return an
// error.
func (m *BotMessenger) Send(ctx context.Context, msg Message) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}
	if msg.ChatID == 0 || msg.Text == "" {
		return SendResult{}, errors.New("chat id and text are required")
	}

	out := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	out.ParseMode = msg.ParseMode
	if len(msg.Buttons) > 0 {
		out.ReplyMarkup = inlineKeyboard(msg.Buttons)
	}

	sent, err := m.api.Send(out)
	if err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) {
			log.Printf("ERROR: Telegram rejected message [chat=%d]: %s", msg.ChatID, apiErr.Message)
			return SendResult{OK: false, Description: apiErr.Message}, nil
		}
		log.Printf("ERROR: Failed to send message [chat=%d]: %v", msg.ChatID, err)
		return SendResult{}, err
	}
	return SendResult{OK: true, MessageID: sent.MessageID}, nil
}

func inlineKeyboard(rows [][]Button) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
			} else {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.CallbackData))
			}
		}
		keyboard = append(keyboard, tgbotapi.NewInlineKeyboardRow(buttons...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Disabled is the Messenger used when no token is configured or the token is rejected.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) (SendResult, error) {
	return SendResult{Description: ErrDisabled.Error()}, ErrDisabled
}
