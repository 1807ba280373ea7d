package feeds

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// HistoryFeed supplies per-player game logs, most recent first.
type HistoryFeed interface {
	FetchPlayerLogs(ctx context.Context, playerName string, limit int) ([]models.GameLog, error)
	Name() string
}

// HistoryClient implements HistoryFeed against the stats supplier HTTP
// API. Results are paginated; pages after the first are fetched
// concurrently since no step downstream depends on arrival order.
type HistoryClient struct {
	httpClient  *RateLimitedHTTPClient
	baseURL     string
	apiKey      string
	pageSize    int
	concurrency int
	adapter     *Adapter
	logger      *logrus.Logger
}

// NewHistoryClient creates a new game log history client
func NewHistoryClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, pageSize, concurrency int, adapter *Adapter, logger *logrus.Logger) *HistoryClient {
	if pageSize <= 0 {
		pageSize = 25
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &HistoryClient{
		httpClient:  httpClient,
		baseURL:     baseURL,
		apiKey:      apiKey,
		pageSize:    pageSize,
		concurrency: concurrency,
		adapter:     adapter,
		logger:      logger,
	}
}

// FetchPlayerLogs retrieves up to limit game logs for one player,
// newest first.
func (c *HistoryClient) FetchPlayerLogs(ctx context.Context, playerName string, limit int) ([]models.GameLog, error) {
	first, err := c.fetchPage(ctx, playerName, 1)
	if err != nil {
		return nil, err
	}

	pages := [][]models.GameLog{c.convert(first.Data)}
	if first.TotalPages > 1 {
		rest, err := c.fetchRemaining(ctx, playerName, first.TotalPages)
		if err != nil {
			return nil, err
		}
		pages = append(pages, rest...)
	}

	var logs []models.GameLog
	for _, page := range pages {
		logs = append(logs, page...)
	}

	// Upstream pages are newest first but late score corrections can
	// reorder rows within a page.
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].GameDate.After(logs[j].GameDate)
	})

	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

// fetchRemaining fans out pages 2..totalPages with bounded concurrency,
// preserving page order in the result.
func (c *HistoryClient) fetchRemaining(ctx context.Context, playerName string, totalPages int) ([][]models.GameLog, error) {
	type pageResult struct {
		index int
		logs  []models.GameLog
		err   error
	}

	results := make([]pageResult, totalPages-1)
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for page := 2; page <= totalPages; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			env, err := c.fetchPage(ctx, playerName, page)
			if err != nil {
				results[page-2] = pageResult{index: page - 2, err: err}
				return
			}
			results[page-2] = pageResult{index: page - 2, logs: c.convert(env.Data)}
		}(page)
	}
	wg.Wait()

	pages := make([][]models.GameLog, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		pages = append(pages, r.logs)
	}
	return pages, nil
}

func (c *HistoryClient) fetchPage(ctx context.Context, playerName string, page int) (*envelope, error) {
	u := fmt.Sprintf("%s/game-logs?player=%s&page=%d&per_page=%d",
		c.baseURL, url.QueryEscape(playerName), page, c.pageSize)
	return fetchEnvelope(ctx, c.httpClient, c.Name(), u, c.apiKey)
}

func (c *HistoryClient) convert(records []Record) []models.GameLog {
	logs := make([]models.GameLog, 0, len(records))
	for _, rec := range records {
		gl, err := c.adapter.GameLog(rec)
		if err != nil {
			c.logger.WithError(err).Debug("Skipping malformed game log record")
			continue
		}
		logs = append(logs, *gl)
	}
	return logs
}

// Name returns the feed name
func (c *HistoryClient) Name() string {
	return "history"
}
