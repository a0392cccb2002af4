package adapter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

// wwrCategoryFeeds maps the supported We Work Remotely categories to their
// RSS feeds. Unknown categories are skipped.
var wwrCategoryFeeds = map[string]string{
	"devops-sysadmin": "https://weworkremotely.com/categories/remote-devops-sysadmin-jobs.rss",
	"engineering":     "https://weworkremotely.com/categories/remote-programming-jobs.rss",
}

// WWRSource fetches jobs from the We Work Remotely category RSS feeds.
type WWRSource struct {
	categories []string
	feeds      map[string]string
	parser     *gofeed.Parser
}

// NewWWRSource creates a source polling the given WWR categories.
func NewWWRSource(categories []string, client *http.Client) *WWRSource {
	parser := gofeed.NewParser()
	parser.Client = client
	return &WWRSource{
		categories: categories,
		feeds:      wwrCategoryFeeds,
		parser:     parser,
	}
}

func (s *WWRSource) Name() string { return "wwr" }

// FetchJobs parses every configured category feed and normalizes the entries
// into the unified Job model. WWR titles encode the company as
// "Company: Title". Obvious non-US listings are pre-filtered here.
func (s *WWRSource) FetchJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	var lastErr error

	for _, category := range s.categories {
		feedURL, ok := s.feeds[category]
		if !ok {
			continue
		}

		feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			lastErr = fmt.Errorf("wwr fetch for %s: %w", category, err)
			continue
		}

		for _, entry := range feed.Items {
			title := entry.Title
			company := ""
			if idx := strings.Index(title, ":"); idx >= 0 {
				company = strings.TrimSpace(title[:idx])
				title = strings.TrimSpace(title[idx+1:])
			}
			summary := extractText(entry.Description)

			if mentionsEurope(title, company, summary) {
				continue
			}

			posted := entry.Published
			if posted == "" {
				posted = entry.Updated
			}

			jobs = append(jobs, model.Job{
				Source:      "wwr",
				ID:          entry.Link,
				Title:       title,
				Company:     company,
				Location:    "Remote",
				URL:         entry.Link,
				Description: summary,
				PostedAt:    parsePostedAt(posted),
			})
		}
	}

	if jobs == nil && lastErr != nil {
		return nil, lastErr
	}
	return jobs, nil
}
