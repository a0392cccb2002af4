package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

const remotiveBaseURL = "https://remotive.com/api/remote-jobs"

// remotiveJob represents a single job in the Remotive API response.
type remotiveJob struct {
	ID                        int64  `json:"id"`
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	JobType                   string `json:"job_type"`
	URL                       string `json:"url"`
	Description               string `json:"description"`
	PublicationDate           string `json:"publication_date"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// RemotiveSource fetches jobs from the Remotive remote-jobs API, searched by
// the configured include keywords.
type RemotiveSource struct {
	keywords []string
	baseURL  string
	client   *http.Client
}

// NewRemotiveSource creates a source searching Remotive for the given keywords.
func NewRemotiveSource(keywords []string, client *http.Client) *RemotiveSource {
	return &RemotiveSource{
		keywords: keywords,
		baseURL:  remotiveBaseURL,
		client:   client,
	}
}

func (s *RemotiveSource) Name() string { return "remotive" }

// FetchJobs retrieves matching jobs and normalizes them into the unified Job
// model. Obvious non-US listings are pre-filtered here; Remotive includes a
// lot of Europe-only remote roles.
func (s *RemotiveSource) FetchJobs(ctx context.Context) ([]model.Job, error) {
	q := url.Values{}
	q.Set("search", strings.Join(s.keywords, "+"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remotive fetch: unexpected status %d", resp.StatusCode)
	}

	var rResp remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&rResp); err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}

	jobs := make([]model.Job, 0, len(rResp.Jobs))
	for _, rj := range rResp.Jobs {
		location := rj.CandidateRequiredLocation
		if location == "" {
			location = rj.JobType
		}
		if location == "" {
			location = "Remote"
		}

		if mentionsEurope(location, rj.Description) {
			continue
		}

		id := strconv.FormatInt(rj.ID, 10)
		if rj.ID == 0 {
			id = rj.URL
		}

		jobs = append(jobs, model.Job{
			Source:      "remotive",
			ID:          id,
			Title:       rj.Title,
			Company:     rj.CompanyName,
			Location:    location,
			URL:         rj.URL,
			Description: rj.Description,
			PostedAt:    parsePostedAt(rj.PublicationDate),
		})
	}

	return jobs, nil
}
