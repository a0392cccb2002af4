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

const jobspikrBaseURL = "https://api.jobspikr.com/v3/jobs"

// jobspikrJob represents a single job in the JobsPikr API response.
type jobspikrJob struct {
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	JobLocation    string `json:"job_location"`
	JobURL         string `json:"job_url"`
	PostDate       string `json:"post_date"`
	JobDescription string `json:"job_description"`
}

type jobspikrResponse struct {
	Data []jobspikrJob `json:"data"`
}

// JobsPikrSource fetches jobs from the JobsPikr aggregator API. The API key
// is read from JOBSPIKR_API_KEY at fetch time; without a key the source
// contributes nothing.
type JobsPikrSource struct {
	keywords      []string
	locationQuery string
	baseURL       string
	client        *http.Client
}

// NewJobsPikrSource creates a source querying JobsPikr for the given keywords
// within the given location.
func NewJobsPikrSource(keywords []string, locationQuery string, client *http.Client) *JobsPikrSource {
	return &JobsPikrSource{
		keywords:      keywords,
		locationQuery: locationQuery,
		baseURL:       jobspikrBaseURL,
		client:        client,
	}
}

func (s *JobsPikrSource) Name() string { return "jobspikr" }

// FetchJobs queries the aggregator and normalizes the results into the
// unified Job model.
func (s *JobsPikrSource) FetchJobs(ctx context.Context) ([]model.Job, error) {
	apiKey := os.Getenv("JOBSPIKR_API_KEY")
	if apiKey == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("q", strings.Join(s.keywords, " "))
	q.Set("l", s.locationQuery)
	q.Set("num", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jobspikr fetch: %w", err)
	}
	req.Header.Set("x-api-key", apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jobspikr fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jobspikr fetch: unexpected status %d", resp.StatusCode)
	}

	var jResp jobspikrResponse
	if err := json.NewDecoder(resp.Body).Decode(&jResp); err != nil {
		return nil, fmt.Errorf("jobspikr fetch: %w", err)
	}

	jobs := make([]model.Job, 0, len(jResp.Data))
	for _, jj := range jResp.Data {
		id := jj.JobURL
		if id == "" {
			id = jj.JobTitle
		}
		jobs = append(jobs, model.Job{
			Source:      "jobspikr",
			ID:          id,
			Title:       jj.JobTitle,
			Company:     jj.CompanyName,
			Location:    jj.JobLocation,
			URL:         jj.JobURL,
			Description: jj.JobDescription,
			PostedAt:    parsePostedAt(jj.PostDate),
		})
	}

	return jobs, nil
}
