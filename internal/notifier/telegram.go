package notifier

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

// Ensure TelegramNotifier implements model.Notifier.
var _ model.Notifier = (*TelegramNotifier)(nil)

// sender is the slice of the bot API the notifier needs; tests substitute a fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends job alerts to Telegram, routing core and stretch
// roles to separate chats.
type TelegramNotifier struct {
	api           sender
	coreChatID    int64
	stretchChatID int64
	tagCore       string
	tagStretch    string
	logger        *slog.Logger
}

// NewTelegramNotifier connects the bot and returns a notifier. tagCore and
// tagStretch are the display tags prepended to each message.
func NewTelegramNotifier(token string, coreChatID, stretchChatID int64, tagCore, tagStretch string, logger *slog.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connecting telegram bot: %w", err)
	}
	return &TelegramNotifier{
		api:           api,
		coreChatID:    coreChatID,
		stretchChatID: stretchChatID,
		tagCore:       tagCore,
		tagStretch:    tagStretch,
		logger:        logger,
	}, nil
}

// Notify sends one message per job to the chat for the given audience.
// Delivery is best-effort: a failed message is logged and the rest of the
// batch still goes out. Returns an error only if ALL messages fail.
func (t *TelegramNotifier) Notify(jobs []model.Job, scopeTag string, stretch bool) error {
	if len(jobs) == 0 {
		return nil
	}

	chatID := t.coreChatID
	levelTag := t.tagCore
	if stretch {
		chatID = t.stretchChatID
		levelTag = t.tagStretch
	}

	failures := 0
	for _, job := range jobs {
		msg := tgbotapi.NewMessage(chatID, formatMessage(job, scopeTag, levelTag))
		msg.DisableWebPagePreview = true

		if _, err := t.api.Send(msg); err != nil {
			t.logger.Error("telegram notification failed",
				"company", job.Company, "title", job.Title, "error", err)
			failures++
			time.Sleep(500 * time.Millisecond)
		}
	}

	if failures == len(jobs) {
		return fmt.Errorf("all %d telegram notifications failed", failures)
	}
	t.logger.Info("telegram notifications complete",
		"scope", scopeTag, "stretch", stretch,
		"sent", len(jobs)-failures, "failed", failures)
	return nil
}

// formatMessage renders one job alert. The posted time, when known, is shown
// in US Central Time since the audience is Austin-based.
func formatMessage(job model.Job, scopeTag, levelTag string) string {
	postedPart := ""
	if job.PostedAt != nil {
		loc, err := time.LoadLocation("America/Chicago")
		if err == nil {
			postedPart = fmt.Sprintf(" (Posted: %s)", job.PostedAt.In(loc).Format("Jan 02, 3:04 PM MST"))
		}
	}
	return fmt.Sprintf("%s %s %s — %s — %s%s\n%s",
		scopeTag,
		levelTag,
		strings.TrimSpace(job.Title),
		strings.TrimSpace(job.Company),
		strings.TrimSpace(job.Location),
		postedPart,
		job.URL,
	)
}
