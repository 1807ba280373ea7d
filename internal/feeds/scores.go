package feeds

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// ScoreFeed supplies final box scores for completed games. Records
// share the game log shape: player rows plus team-level rows carrying
// final scores.
type ScoreFeed interface {
	FetchFinals(ctx context.Context, sport string, from, to time.Time) ([]models.GameLog, error)
	Name() string
}

// ScoreClient implements ScoreFeed against the results supplier HTTP API.
type ScoreClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	adapter    *Adapter
	logger     *logrus.Logger
}

// NewScoreClient creates a new final score client
func NewScoreClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, adapter *Adapter, logger *logrus.Logger) *ScoreClient {
	return &ScoreClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		adapter:    adapter,
		logger:     logger,
	}
}

// FetchFinals retrieves completed box scores within the date range
func (c *ScoreClient) FetchFinals(ctx context.Context, sport string, from, to time.Time) ([]models.GameLog, error) {
	url := fmt.Sprintf("%s/box-scores?sport=%s&from=%s&to=%s",
		c.baseURL, sport, from.Format(feedDateFormat), to.Format(feedDateFormat))

	env, err := fetchEnvelope(ctx, c.httpClient, c.Name(), url, c.apiKey)
	if err != nil {
		return nil, err
	}

	logs := make([]models.GameLog, 0, len(env.Data))
	for _, rec := range env.Data {
		gl, err := c.adapter.GameLog(rec)
		if err != nil {
			c.logger.WithError(err).Debug("Skipping malformed box score record")
			continue
		}
		if !gl.Final {
			// In-progress games come back from some suppliers even
			// when only finals were requested.
			continue
		}
		logs = append(logs, *gl)
	}

	return logs, nil
}

// Name returns the feed name
func (c *ScoreClient) Name() string {
	return "scores"
}
