package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	AbsoluteURL string             `json:"absolute_url"`
	Content     string             `json:"content"`
	UpdatedAt   string             `json:"updated_at"`
	CreatedAt   string             `json:"created_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseSource fetches jobs from the Greenhouse public boards API for a
// list of board tokens.
type GreenhouseSource struct {
	boardTokens []string
	baseURL     string
	client      *http.Client
}

// NewGreenhouseSource creates a source polling the given Greenhouse boards.
func NewGreenhouseSource(boardTokens []string, client *http.Client) *GreenhouseSource {
	return &GreenhouseSource{
		boardTokens: boardTokens,
		baseURL:     greenhouseBaseURL,
		client:      client,
	}
}

func (s *GreenhouseSource) Name() string { return "greenhouse" }

// FetchJobs retrieves all jobs from every configured board and normalizes
// them into the unified Job model. A board that fails is skipped; the
// remaining boards still contribute.
func (s *GreenhouseSource) FetchJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	var lastErr error

	for _, token := range s.boardTokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		boardJobs, err := s.fetchBoard(ctx, token)
		if err != nil {
			lastErr = err
			continue
		}
		jobs = append(jobs, boardJobs...)
	}

	if jobs == nil && lastErr != nil {
		return nil, lastErr
	}
	return jobs, nil
}

func (s *GreenhouseSource) fetchBoard(ctx context.Context, token string) ([]model.Job, error) {
	// content=true includes the posting body so the score gate has text to
	// work with.
	url := fmt.Sprintf("%s/%s/jobs?content=true", s.baseURL, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", token, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", token, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("greenhouse fetch for %s: unexpected status %d", token, resp.StatusCode)
	}

	var ghResp greenhouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", token, err)
	}

	jobs := make([]model.Job, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		id := strconv.FormatInt(gj.ID, 10)
		if gj.ID == 0 {
			id = gj.AbsoluteURL
		}
		posted := gj.UpdatedAt
		if posted == "" {
			posted = gj.CreatedAt
		}

		jobs = append(jobs, model.Job{
			Source:      "greenhouse",
			ID:          id,
			Title:       gj.Title,
			Company:     token,
			Location:    gj.Location.Name,
			URL:         gj.AbsoluteURL,
			Description: extractText(gj.Content),
			PostedAt:    parsePostedAt(posted),
		})
	}

	return jobs, nil
}
