package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/villagecare/cms-sync/internal/config"
	"github.com/villagecare/cms-sync/pkg/utils"
)

// envelope is the CMS datastore query response shape.
type envelope struct {
	Results []map[string]interface{} `json:"results"`
	Count   int                      `json:"count"`
}

// CMSSource pages through one CMS provider-data dataset. Requests are paced
// to the configured per-minute budget; transient failures are retried inside
// the shared RetryClient.
type CMSSource struct {
	Client    *utils.RetryClient
	BaseURL   string
	DatasetID string

	minInterval time.Duration
	lastFetch   time.Time
}

// NewCMSSource builds a source for one dataset using the scope's rate-limit
// budget.
func NewCMSSource(baseURL, datasetID string, scope *config.Scope) *CMSSource {
	var interval time.Duration
	if rpm := scope.RateLimit.MaxRequestsPerMinute; rpm > 0 {
		interval = time.Minute / time.Duration(rpm)
	}
	return &CMSSource{
		Client:      utils.NewRetryClient(scope.RateLimit.MaxAttempts, scope.RetryDelay()),
		BaseURL:     baseURL,
		DatasetID:   datasetID,
		minInterval: interval,
	}
}

func (s *CMSSource) FetchPage(ctx context.Context, limit, offset int) ([]map[string]interface{}, error) {
	s.pace(ctx)

	url := fmt.Sprintf("%s/%s/0?limit=%d&offset=%d", s.BaseURL, s.DatasetID, limit, offset)
	var env envelope
	if err := s.Client.GetJSON(ctx, url, &env); err != nil {
		return nil, err
	}
	return env.Results, nil
}

func (s *CMSSource) pace(ctx context.Context) {
	if s.minInterval <= 0 {
		return
	}
	if wait := s.minInterval - time.Since(s.lastFetch); wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}
	s.lastFetch = time.Now()
}
