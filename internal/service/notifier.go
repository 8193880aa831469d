package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/telegram"
)

// notifier delivers best-effort Telegram messages to a handle. It never
// fails the caller: anything that goes wrong comes back as a warning string.
type notifier struct {
	chatRepo  repository.ChatRepository
	messenger telegram.Messenger
}

func (n notifier) notify(ctx context.Context, handle string, msg telegram.Message) []string {
	if n.messenger == nil || handle == "" {
		return nil
	}

	chatID, err := n.chatRepo.GetChatIDByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("INFO: @%s has not started the bot yet, skipping notification", handle)
			return []string{fmt.Sprintf("@%s has not started the bot yet, no Telegram message was sent", handle)}
		}
		log.Printf("WARN: Chat lookup for @%s failed: %v", handle, err)
		return []string{"Telegram notification skipped: chat lookup failed"}
	}

	msg.ChatID = chatID
	res, err := n.messenger.Send(ctx, msg)
	if err != nil {
		if errors.Is(err, telegram.ErrDisabled) {
			return []string{"Telegram notifications are disabled"}
		}
		log.Printf("WARN: Telegram send to @%s failed: %v", handle, err)
		return []string{"Telegram notification could not be delivered"}
	}
	if !res.OK {
		log.Printf("WARN: Telegram rejected message to @%s: %s", handle, res.Description)
		return []string{"Telegram notification was rejected: " + res.Description}
	}
	return nil
}
