package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

const jobdataBaseURL = "https://api.jobdataapi.com/v1/jobs/search"

// jobdataJob represents a single job in the JobDataAPI response.
type jobdataJob struct {
	Title       string         `json:"title"`
	Company     jobdataCompany `json:"company"`
	Location    string         `json:"location"`
	URL         string         `json:"url"`
	PublishedAt string         `json:"published_at"`
	Description string         `json:"description"`
}

type jobdataCompany struct {
	Name string `json:"name"`
}

type jobdataResponse struct {
	Results []jobdataJob `json:"results"`
}

// JobDataAPISource fetches jobs from the JobDataAPI aggregator. The API key
// is read from JOBDATAAPI_KEY at fetch time; without a key the source
// contributes nothing.
type JobDataAPISource struct {
	keywords      []string
	locationQuery string
	baseURL       string
	client        *http.Client
}

// NewJobDataAPISource creates a source querying JobDataAPI for the given
// keywords within the given location.
func NewJobDataAPISource(keywords []string, locationQuery string, client *http.Client) *JobDataAPISource {
	return &JobDataAPISource{
		keywords:      keywords,
		locationQuery: locationQuery,
		baseURL:       jobdataBaseURL,
		client:        client,
	}
}

func (s *JobDataAPISource) Name() string { return "jobdataapi" }

// FetchJobs queries the aggregator and normalizes the results into the
// unified Job model.
func (s *JobDataAPISource) FetchJobs(ctx context.Context) ([]model.Job, error) {
	apiKey := os.Getenv("JOBDATAAPI_KEY")
	if apiKey == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("query", strings.Join(s.keywords, " "))
	q.Set("location", s.locationQuery)
	q.Set("page_size", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jobdataapi fetch: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jobdataapi fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jobdataapi fetch: unexpected status %d", resp.StatusCode)
	}

	var jResp jobdataResponse
	if err := json.NewDecoder(resp.Body).Decode(&jResp); err != nil {
		return nil, fmt.Errorf("jobdataapi fetch: %w", err)
	}

	jobs := make([]model.Job, 0, len(jResp.Results))
	for _, jj := range jResp.Results {
		id := jj.URL
		if id == "" {
			id = jj.Title
		}
		jobs = append(jobs, model.Job{
			Source:      "jobdataapi",
			ID:          id,
			Title:       jj.Title,
			Company:     jj.Company.Name,
			Location:    jj.Location,
			URL:         jj.URL,
			Description: jj.Description,
			PostedAt:    parsePostedAt(jj.PublishedAt),
		})
	}

	return jobs, nil
}
