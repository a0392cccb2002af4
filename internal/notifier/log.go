package notifier

import (
	"log/slog"
	"time"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new job matches to the given logger as structured
// messages. Used when Telegram is not configured and in check mode.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with its scope and level tags. Returns nil (stdout
// logging does not fail).
func (n *LogNotifier) Notify(jobs []model.Job, scopeTag string, stretch bool) error {
	for _, j := range jobs {
		args := []any{
			"scope", scopeTag,
			"stretch", stretch,
			"company", j.Company,
			"title", j.Title,
			"location", j.Location,
			"url", j.URL,
		}
		if j.PostedAt != nil {
			args = append(args, "posted_at", j.PostedAt.Format(time.RFC3339))
		}
		n.logger.Info("new job", args...)
	}
	return nil
}

// SendTestMessage sends a dummy job notification to verify the integration
// works end to end.
func SendTestMessage(n model.Notifier, scopeTag string) error {
	now := time.Now()
	testJob := model.Job{
		Source:   "test",
		ID:       "test-001",
		Title:    "Test Notification — Integration Verified",
		Company:  "Job Checker",
		Location: "Austin, TX",
		URL:      "https://example.com/jobs/test",
		PostedAt: &now,
	}
	return n.Notify([]model.Job{testJob}, scopeTag, false)
}
