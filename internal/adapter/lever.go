package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever posting.
type leverCategories struct {
	Location string `json:"location"`
}

// leverJob represents a single posting in the Lever API response.
type leverJob struct {
	ID         string          `json:"id"`
	Text       string          `json:"text"`
	Categories leverCategories `json:"categories"`
	CreatedAt  int64           `json:"createdAt"`
	ListedAt   int64           `json:"listedAt"`
	HostedURL  string          `json:"hostedUrl"`
	ApplyURL   string          `json:"applyUrl"`
}

// LeverSource fetches jobs from the Lever public postings API for a list of
// company slugs.
type LeverSource struct {
	companies []string
	baseURL   string
	client    *http.Client
}

// NewLeverSource creates a source polling the given Lever boards.
func NewLeverSource(companies []string, client *http.Client) *LeverSource {
	return &LeverSource{
		companies: companies,
		baseURL:   leverBaseURL,
		client:    client,
	}
}

func (s *LeverSource) Name() string { return "lever" }

// FetchJobs retrieves postings from every configured company and normalizes
// them into the unified Job model. A company that fails is skipped.
func (s *LeverSource) FetchJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	var lastErr error

	for _, company := range s.companies {
		company = strings.TrimSpace(company)
		if company == "" {
			continue
		}
		companyJobs, err := s.fetchCompany(ctx, company)
		if err != nil {
			lastErr = err
			continue
		}
		jobs = append(jobs, companyJobs...)
	}

	if jobs == nil && lastErr != nil {
		return nil, lastErr
	}
	return jobs, nil
}

func (s *LeverSource) fetchCompany(ctx context.Context, company string) ([]model.Job, error) {
	url := fmt.Sprintf("%s/%s?mode=json", s.baseURL, company)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", company, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", company, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lever fetch for %s: unexpected status %d", company, resp.StatusCode)
	}

	var leverJobs []leverJob
	if err := json.NewDecoder(resp.Body).Decode(&leverJobs); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", company, err)
	}

	jobs := make([]model.Job, 0, len(leverJobs))
	for _, lj := range leverJobs {
		url := lj.HostedURL
		if url == "" {
			url = lj.ApplyURL
		}

		// Lever timestamps are epoch milliseconds.
		ms := lj.CreatedAt
		if ms == 0 {
			ms = lj.ListedAt
		}
		var postedAt *time.Time
		if ms > 0 {
			t := time.UnixMilli(ms).UTC()
			postedAt = &t
		}

		id := lj.ID
		if id == "" {
			id = url
		}

		jobs = append(jobs, model.Job{
			Source:   "lever",
			ID:       id,
			Title:    lj.Text,
			Company:  company,
			Location: lj.Categories.Location,
			URL:      url,
			PostedAt: postedAt,
		})
	}

	return jobs, nil
}
