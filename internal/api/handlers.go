package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/metrics"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/odds"
	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/service"
)

const dateLayout = "2006-01-02"

// actionRequest is the shared body for the analysis and parlay actions.
// Every field is optional; an empty date means today.
type actionRequest struct {
	Date   string                 `json:"date"`
	Params service.AnalysisParams `json:"params"`
}

type settleRequest struct {
	AsOf string `json:"as_of"`
}

// wagerView decorates a stored wager with its parlay price and the
// book's implied probability for read-back clients.
type wagerView struct {
	*models.Wager
	ParlayOdds  int     `json:"parlay_odds,omitempty"`
	ImpliedProb float64 `json:"implied_prob,omitempty"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	req, gameDate, ok := s.bindAction(c)
	if !ok {
		return
	}
	report, err := s.analysis.Analyze(c.Request.Context(), gameDate, req.Params)
	metrics.ObserveRun("analyze", report, err)
	if err != nil {
		s.failRun(c, "analyze", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (s *Server) handleAnalyzeAuto(c *gin.Context) {
	req, gameDate, ok := s.bindAction(c)
	if !ok {
		return
	}
	report, err := s.analysis.AnalyzeAuto(c.Request.Context(), gameDate, req.Params)
	metrics.ObserveRun("analyze_auto", report, err)
	if err != nil {
		s.failRun(c, "analyze_auto", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (s *Server) handleGenerateParlays(c *gin.Context) {
	_, targetDate, ok := s.bindAction(c)
	if !ok {
		return
	}
	report, wagers, err := s.parlays.GenerateParlays(c.Request.Context(), targetDate)
	metrics.ObserveRun("generate_parlays", report, err)
	if err != nil {
		s.failRun(c, "generate_parlays", err)
		return
	}
	metrics.ObserveWagers(wagers)
	c.JSON(http.StatusOK, gin.H{"report": report, "wagers": wagerViews(wagers)})
}

func (s *Server) handleGetPicks(c *gin.Context) {
	_, gameDate, ok := s.bindAction(c)
	if !ok {
		return
	}
	s.respondPicks(c, gameDate)
}

func (s *Server) handleSettle(c *gin.Context) {
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	asOf := time.Now().UTC()
	if req.AsOf != "" {
		parsed, err := time.Parse(time.RFC3339, req.AsOf)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid as_of: " + err.Error()})
			return
		}
		asOf = parsed.UTC()
	}

	report, err := s.settlement.Settle(c.Request.Context(), asOf)
	metrics.ObserveRun("settle", report, err)
	if err != nil {
		s.failRun(c, "settle", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (s *Server) handleListPicks(c *gin.Context) {
	gameDate, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.respondPicks(c, gameDate)
}

func (s *Server) handleListWagers(c *gin.Context) {
	targetDate, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wagers, err := s.parlays.Wagers(c.Request.Context(), targetDate)
	if err != nil {
		s.failRun(c, "list_wagers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":   targetDate.Format(dateLayout),
		"count":  len(wagers),
		"wagers": wagerViews(wagers),
	})
}

func (s *Server) respondPicks(c *gin.Context, gameDate time.Time) {
	picks, err := s.analysis.Picks(c.Request.Context(), gameDate)
	if err != nil {
		s.failRun(c, "get_picks", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":  gameDate.Format(dateLayout),
		"count": len(picks),
		"picks": picks,
	})
}

// bindAction parses the shared action body. A missing body is fine and
// means run for today with no overrides.
func (s *Server) bindAction(c *gin.Context) (actionRequest, time.Time, bool) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return req, time.Time{}, false
	}
	gameDate, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, time.Time{}, false
	}
	return req, gameDate, true
}

func (s *Server) failRun(c *gin.Context, action string, err error) {
	s.logger.WithError(err).WithField("action", action).Error("Run failed")
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// statusFor maps whole-run failures onto HTTP statuses. Upstream feed
// trouble is a bad gateway; everything else is internal.
func statusFor(err error) int {
	var fetchErr *models.UpstreamFetchError
	if errors.As(err, &fetchErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errors.New("invalid date, want YYYY-MM-DD")
	}
	return parsed, nil
}

func wagerViews(wagers []*models.Wager) []wagerView {
	views := make([]wagerView, 0, len(wagers))
	for _, wager := range wagers {
		view := wagerView{Wager: wager}
		legOdds := make([]int, 0, len(wager.Legs))
		for _, leg := range wager.Legs {
			legOdds = append(legOdds, leg.Odds)
		}
		if price, err := odds.ParlayAmerican(legOdds); err == nil {
			view.ParlayOdds = price
			if prob, err := odds.ImpliedProbability(price); err == nil {
				view.ImpliedProb = prob
			}
		}
		views = append(views, view)
	}
	return views
}
