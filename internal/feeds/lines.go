package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

const feedDateFormat = "2006-01-02"

// envelope is the standard list response wrapper used by the upstream
// supplier APIs.
type envelope struct {
	Data       []Record `json:"data"`
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
}

// LineFeed supplies active prop lines for a sport and game date.
type LineFeed interface {
	FetchLines(ctx context.Context, sport string, gameDate time.Time) ([]models.PropLine, error)
	Name() string
}

// LineClient implements LineFeed against the line supplier HTTP API.
type LineClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	adapter    *Adapter
	logger     *logrus.Logger
}

// NewLineClient creates a new line supplier client
func NewLineClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, adapter *Adapter, logger *logrus.Logger) *LineClient {
	return &LineClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		adapter:    adapter,
		logger:     logger,
	}
}

// FetchLines retrieves active prop lines for the given sport and date
func (c *LineClient) FetchLines(ctx context.Context, sport string, gameDate time.Time) ([]models.PropLine, error) {
	url := fmt.Sprintf("%s/lines?sport=%s&date=%s", c.baseURL, sport, gameDate.Format(feedDateFormat))

	env, err := fetchEnvelope(ctx, c.httpClient, c.Name(), url, c.apiKey)
	if err != nil {
		return nil, err
	}

	lines := make([]models.PropLine, 0, len(env.Data))
	var skipped int
	for _, rec := range env.Data {
		line, err := c.adapter.PropLine(rec)
		if err != nil {
			skipped++
			c.logger.WithError(err).Debug("Skipping malformed line record")
			continue
		}
		if line.Sport == "" {
			line.Sport = sport
		}
		lines = append(lines, *line)
	}

	if skipped > 0 {
		c.logger.WithFields(logrus.Fields{
			"feed":    c.Name(),
			"skipped": skipped,
			"kept":    len(lines),
		}).Warn("Dropped malformed records from line feed")
	}

	return lines, nil
}

// Name returns the feed name
func (c *LineClient) Name() string {
	return "lines"
}

// fetchEnvelope performs an authenticated GET and decodes the standard
// list envelope, classifying transport and status failures as upstream
// fetch errors so a run aborts instead of limping on partial data.
func fetchEnvelope(ctx context.Context, client *RateLimitedHTTPClient, feed, url, apiKey string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &models.UpstreamFetchError{Feed: feed, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("X-Api-Key", apiKey)
	}

	resp, err := client.Do(ctx, req)
	if err != nil {
		FeedRequestsTotal.WithLabelValues(feed, "failure").Inc()
		return nil, &models.UpstreamFetchError{Feed: feed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		FeedRequestsTotal.WithLabelValues(feed, "failure").Inc()
		return nil, &models.UpstreamFetchError{Feed: feed, Err: fmt.Errorf("invalid API key")}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		FeedRequestsTotal.WithLabelValues(feed, "failure").Inc()
		return nil, &models.UpstreamFetchError{Feed: feed, Err: fmt.Errorf("rate limit exceeded")}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		FeedRequestsTotal.WithLabelValues(feed, "failure").Inc()
		return nil, &models.UpstreamFetchError{Feed: feed, Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		FeedRequestsTotal.WithLabelValues(feed, "failure").Inc()
		return nil, &models.UpstreamFetchError{Feed: feed, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	FeedRequestsTotal.WithLabelValues(feed, "success").Inc()
	return &env, nil
}
