// Package digest sends each trainer a morning summary of clients who are
// slipping, on a cron schedule.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/engagement"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron"
)

// DefaultSchedule fires at 09:00 every day (seconds field first).
const DefaultSchedule = "0 0 9 * * *"

// runTimeout bounds one digest run across all trainers.
const runTimeout = 2 * time.Minute

type Digest struct {
	users     repository.UserRepository
	clients   repository.ClientRepository
	chats     repository.ChatRepository
	messenger telegram.Messenger
	now       func() time.Time
}

func New(users repository.UserRepository, clients repository.ClientRepository, chats repository.ChatRepository, messenger telegram.Messenger) *Digest {
	return &Digest{users: users, clients: clients, chats: chats, messenger: messenger, now: time.Now}
}

// Schedule registers the digest on a new cron runner and starts it. The
// caller stops the returned runner on shutdown.
func Schedule(spec string, d *Digest) (*cron.Cron, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	c := cron.New()
	err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		sent, err := d.RunOnce(ctx)
		if err != nil {
			log.Printf("ERROR: Trainer digest run failed: %v", err)
			return
		}
		log.Printf("INFO: Trainer digest sent to %d trainer(s)", sent)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", spec, err)
	}
	c.Start()
	log.Printf("INFO: Trainer digest scheduled (%s)", spec)
	return c, nil
}

// RunOnce sends one digest to every trainer that has a bound chat and at
// least one slipping client. Per-trainer failures are logged and skipped.
func (d *Digest) RunOnce(ctx context.Context) (int, error) {
	trainers, err := d.users.ListTrainers(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing trainers: %w", err)
	}

	now := d.now()
	sent := 0
	for _, trainer := range trainers {
		if trainer.TelegramHandle == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		ok, err := d.sendTo(ctx, trainer, now)
		if err != nil {
			log.Printf("WARN: Digest for trainer %s skipped: %v", trainer.ID.Hex(), err)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

func (d *Digest) sendTo(ctx context.Context, trainer domain.User, now time.Time) (bool, error) {
	clients, err := d.clients.GetByTrainerID(ctx, trainer.ID)
	if err != nil {
		return false, err
	}
	text, ok := Compose(clients, now)
	if !ok {
		return false, nil
	}

	chatID, err := d.chats.GetChatIDByHandle(ctx, trainer.TelegramHandle)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	res, err := d.messenger.Send(ctx, telegram.Message{ChatID: chatID, Text: text, ParseMode: telegram.ParseModeMarkdown})
	if err != nil {
		return false, err
	}
	if !res.OK {
		return false, errors.New(res.Description)
	}
	return true, nil
}

// Compose builds the Markdown digest body. ok is false when every client is
// active and there is nothing to report.
func Compose(clients []domain.Client, now time.Time) (text string, ok bool) {
	type entry struct {
		name   string
		status engagement.Status
		phrase string
	}
	var entries []entry
	for i := range clients {
		c := &clients[i]
		st := engagement.Classify(c, now)
		if st.Label == engagement.LabelActive {
			continue
		}
		entries = append(entries, entry{name: c.Name, status: st, phrase: describe(c, now)})
	}
	if len(entries) == 0 {
		return "", false
	}

	// needs-attention first, then by name
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].status.Label != entries[j].status.Label {
			return entries[i].status.Label == engagement.LabelNeedsAttention
		}
		return entries[i].name < entries[j].name
	})

	var b strings.Builder
	fmt.Fprintf(&b, "*Clients to check on (%s)*\n", now.Format("Mon 2 Jan"))
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%s *%s*: %s",
			marker(e.status.Severity),
			tgbotapi.EscapeText(tgbotapi.ModeMarkdown, e.name),
			tgbotapi.EscapeText(tgbotapi.ModeMarkdown, e.phrase))
	}
	return b.String(), true
}

func describe(c *domain.Client, now time.Time) string {
	if engagement.AssignedDays(c.WeeklyPlan) == 0 {
		return "no plan assigned"
	}
	return engagement.LastWorkoutPhrase(c.CompletedWorkouts, now)
}

func marker(s engagement.Severity) string {
	if s == engagement.SeverityCritical {
		return "🔴"
	}
	return "🟡"
}
