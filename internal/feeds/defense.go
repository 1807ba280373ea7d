package feeds

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// DefenseFeed supplies team defensive rankings per stat type.
type DefenseFeed interface {
	FetchRanks(ctx context.Context, sport string) ([]models.DefenseRank, error)
	Name() string
}

// DefenseClient implements DefenseFeed against the rankings supplier
// HTTP API.
type DefenseClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	adapter    *Adapter
	logger     *logrus.Logger
}

// NewDefenseClient creates a new defensive rankings client
func NewDefenseClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, adapter *Adapter, logger *logrus.Logger) *DefenseClient {
	return &DefenseClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		adapter:    adapter,
		logger:     logger,
	}
}

// FetchRanks retrieves the full defensive ranking table for a sport
func (c *DefenseClient) FetchRanks(ctx context.Context, sport string) ([]models.DefenseRank, error) {
	url := fmt.Sprintf("%s/defense-ranks?sport=%s", c.baseURL, sport)

	env, err := fetchEnvelope(ctx, c.httpClient, c.Name(), url, c.apiKey)
	if err != nil {
		return nil, err
	}

	ranks := make([]models.DefenseRank, 0, len(env.Data))
	for _, rec := range env.Data {
		dr, err := c.adapter.DefenseRank(rec)
		if err != nil {
			c.logger.WithError(err).Debug("Skipping malformed defense rank record")
			continue
		}
		ranks = append(ranks, *dr)
	}

	return ranks, nil
}

// Name returns the feed name
func (c *DefenseClient) Name() string {
	return "defense"
}
