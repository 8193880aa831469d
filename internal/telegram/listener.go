package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	"alcyxob/fitcoach/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChatStore records which chat belongs to a handle.
type ChatStore interface {
	SaveChatID(ctx context.Context, handle string, chatID int64) error
}

// Replier answers free text from a Telegram user.
type Replier interface {
	ReplyToHandle(ctx context.Context, handle, text string) (string, error)
}

const greeting = "Hi %s! You're connected to your coach. " +
	"You'll get plan updates here, and you can ask me about your plan or progress any time."

const noHandleReply = "Please set a Telegram username in your settings, then send /start again so your coach can find you."

// Listener long-polls updates. /start binds the sender's handle to the chat;
// any other text goes to the Replier.
type Listener struct {
	api       *tgbotapi.BotAPI
	messenger Messenger
	chats     ChatStore
	replier   Replier
}

func NewListener(api *tgbotapi.BotAPI, messenger Messenger, chats ChatStore, replier Replier) *Listener {
	return &Listener{api: api, messenger: messenger, chats: chats, replier: replier}
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := l.api.GetUpdatesChan(u)
	log.Println("INFO: Telegram update listener started")

	for {
		select {
		case <-ctx.Done():
			l.api.StopReceivingUpdates()
			log.Println("INFO: Telegram update listener stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			reply := l.handle(ctx, update.Message)
			if reply == "" {
				continue
			}
			if _, err := l.messenger.Send(ctx, Message{ChatID: update.Message.Chat.ID, Text: reply}); err != nil {
				log.Printf("ERROR: Failed to answer chat %d: %v", update.Message.Chat.ID, err)
			}
		}
	}
}

// handle returns the reply text for one incoming message, or "" for none.
func (l *Listener) handle(ctx context.Context, msg *tgbotapi.Message) string {
	if msg.From == nil || msg.Chat == nil {
		return ""
	}
	handle := domain.NormalizeHandle(msg.From.UserName)
	if handle == "" {
		return noHandleReply
	}

	if msg.IsCommand() && msg.Command() == "start" {
		if err := l.chats.SaveChatID(ctx, handle, msg.Chat.ID); err != nil {
			log.Printf("ERROR: Failed to save chat for @%s: %v", handle, err)
			return "Something went wrong, please send /start again in a minute."
		}
		log.Printf("INFO: Bound @%s to chat %d", handle, msg.Chat.ID)
		name := msg.From.FirstName
		if name == "" {
			name = "@" + handle
		}
		return fmt.Sprintf(greeting, name)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" || l.replier == nil {
		return ""
	}
	reply, err := l.replier.ReplyToHandle(ctx, handle, text)
	if err != nil {
		log.Printf("ERROR: Assistant reply for @%s failed: %v", handle, err)
		return "I couldn't look that up right now, please try again later."
	}
	return reply
}
