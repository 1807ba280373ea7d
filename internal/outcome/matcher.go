package outcome

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/models"
)

// Settlement window around a wager's target date. Box scores can land a
// day early from timezone shifts or days late from postponements.
const (
	windowDaysBefore = 1
	windowDaysAfter  = 4
)

var (
	signedNumberRe = regexp.MustCompile(`[-+]\d+(?:\.\d+)?`)
	overUnderRe    = regexp.MustCompile(`\b(o|u|over|under)\s*(\d+(?:\.\d+)?)`)
	moneylineRe    = regexp.MustCompile(`\bml\b`)
)

// Matcher reconciles wager legs against stored box scores.
type Matcher struct {
	logger *logrus.Logger
}

func NewMatcher(logger *logrus.Logger) *Matcher {
	return &Matcher{logger: logger}
}

// ResolveLeg reconciles one leg against the provided game logs. Logs
// outside the settlement window around targetDate are ignored, and the
// log on the exact target date wins when several match.
func (m *Matcher) ResolveLeg(leg models.Leg, logs []*models.GameLog, targetDate time.Time) models.LegOutcome {
	betType := classifyBetType(leg)

	var out models.LegOutcome
	if betType == models.BetPlayerProp {
		out = m.resolvePlayerProp(leg, logs, targetDate)
	} else {
		out = m.resolveTeamLeg(leg, betType, logs, targetDate)
	}

	m.logger.WithFields(logrus.Fields{
		"player":   leg.PlayerName,
		"stat":     leg.StatType,
		"bet_type": betType,
		"result":   out.Result,
	}).Debug("Resolved leg")
	return out
}

// classifyBetType trusts the stored bet type when present. Legs that
// predate the field fall back to their structured prop fields, then to
// parsing the human-readable description.
func classifyBetType(leg models.Leg) models.BetType {
	if leg.BetType != "" {
		return leg.BetType
	}
	if leg.PlayerName != "" && leg.StatType != "" {
		return models.BetPlayerProp
	}
	return classifyDescription(leg.Description)
}

func classifyDescription(text string) models.BetType {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "moneyline") || moneylineRe.MatchString(lower):
		return models.BetTeamMoneyline
	case strings.Contains(lower, "spread") || signedNumberRe.MatchString(lower):
		return models.BetTeamSpread
	case strings.Contains(lower, "total") || overUnderRe.MatchString(lower):
		return models.BetTeamTotal
	default:
		return models.BetPlayerProp
	}
}

func (m *Matcher) resolvePlayerProp(leg models.Leg, logs []*models.GameLog, targetDate time.Time) models.LegOutcome {
	var best *models.GameLog
	bestScore := 0.0
	for _, log := range logs {
		if log.IsTeamRow() || !inWindow(log.GameDate, targetDate) {
			continue
		}
		score := playerMatchScore(leg.PlayerName, log.PlayerName)
		if score < matchAccept {
			continue
		}
		better := best == nil || score > bestScore ||
			(score == bestScore && dateDistance(log.GameDate, targetDate) < dateDistance(best.GameDate, targetDate))
		if better {
			best = log
			bestScore = score
		}
		if bestScore == matchExact && best.GameDate.Equal(targetDate) {
			break
		}
	}

	if best == nil {
		return noData(leg, "no matching game log")
	}
	if !best.Final {
		return noData(leg, "game not final")
	}
	actual, ok := best.StatValue(leg.StatType)
	if !ok {
		return noData(leg, fmt.Sprintf("unknown stat type %q", leg.StatType))
	}

	return models.LegOutcome{
		Leg:        leg,
		Result:     compareToLine(actual, leg.Line, leg.Side),
		Actual:     actual,
		MatchScore: bestScore,
		Detail:     fmt.Sprintf("matched %s on %s", best.PlayerName, best.GameDate.Format("2006-01-02")),
	}
}

func (m *Matcher) resolveTeamLeg(leg models.Leg, betType models.BetType, logs []*models.GameLog, targetDate time.Time) models.LegOutcome {
	team := leg.TeamName
	if team == "" {
		abbr, ok := findTeamInText(leg.Description)
		if !ok {
			return noData(leg, "no team reference in leg")
		}
		team = abbr
	}

	var best *models.GameLog
	for _, log := range logs {
		if !log.IsTeamRow() || !inWindow(log.GameDate, targetDate) {
			continue
		}
		if !sameTeam(team, log.PlayerTeam) {
			continue
		}
		if best == nil || dateDistance(log.GameDate, targetDate) < dateDistance(best.GameDate, targetDate) {
			best = log
		}
	}

	if best == nil {
		return noData(leg, "no team score in window")
	}
	if !best.Final {
		return noData(leg, "game not final")
	}

	switch betType {
	case models.BetTeamMoneyline:
		return moneylineOutcome(leg, best)
	case models.BetTeamSpread:
		return spreadOutcome(leg, best)
	default:
		return totalOutcome(leg, best)
	}
}

func moneylineOutcome(leg models.Leg, log *models.GameLog) models.LegOutcome {
	margin := float64(log.TeamScore - log.OpponentScore)
	result := models.LegMiss
	switch {
	case margin > 0:
		result = models.LegHit
	case margin == 0:
		result = models.LegPush
	}
	return models.LegOutcome{
		Leg:        leg,
		Result:     result,
		Actual:     margin,
		MatchScore: matchExact,
		Detail:     scoreDetail(log),
	}
}

// spreadOutcome settles against the cover margin: the team's winning
// margin plus the signed handicap. A margin that lands exactly on the
// line pushes.
func spreadOutcome(leg models.Leg, log *models.GameLog) models.LegOutcome {
	line, ok := spreadLine(leg)
	if !ok {
		return noData(leg, "no spread line")
	}

	margin := float64(log.TeamScore - log.OpponentScore)
	cover := margin + line
	result := models.LegMiss
	switch {
	case cover > 0:
		result = models.LegHit
	case cover == 0:
		result = models.LegPush
	}
	return models.LegOutcome{
		Leg:        leg,
		Result:     result,
		Actual:     margin,
		MatchScore: matchExact,
		Detail:     scoreDetail(log),
	}
}

func totalOutcome(leg models.Leg, log *models.GameLog) models.LegOutcome {
	side := leg.Side
	line := leg.Line
	if side == "" || line == 0 {
		parsedSide, parsedLine, ok := parseTotal(leg.Description)
		if !ok {
			return noData(leg, "no total line")
		}
		if side == "" {
			side = parsedSide
		}
		if line == 0 {
			line = parsedLine
		}
	}

	total := float64(log.TeamScore + log.OpponentScore)
	return models.LegOutcome{
		Leg:        leg,
		Result:     compareToLine(total, line, side),
		Actual:     total,
		MatchScore: matchExact,
		Detail:     scoreDetail(log),
	}
}

func spreadLine(leg models.Leg) (float64, bool) {
	if leg.Line != 0 {
		return leg.Line, true
	}
	match := signedNumberRe.FindString(leg.Description)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	return v, err == nil
}

func parseTotal(text string) (models.Side, float64, bool) {
	match := overUnderRe.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return "", 0, false
	}
	v, err := strconv.ParseFloat(match[2], 64)
	if err != nil {
		return "", 0, false
	}
	side := models.SideUnder
	if match[1] == "o" || match[1] == "over" {
		side = models.SideOver
	}
	return side, v, true
}

// compareToLine applies the push-first rule: landing exactly on the
// line is never a hit or a miss regardless of side.
func compareToLine(actual, line float64, side models.Side) models.LegResult {
	if actual == line {
		return models.LegPush
	}
	switch side {
	case models.SideOver:
		if actual > line {
			return models.LegHit
		}
	case models.SideUnder:
		if actual < line {
			return models.LegHit
		}
	default:
		return models.LegNoData
	}
	return models.LegMiss
}

func inWindow(gameDate, target time.Time) bool {
	start := target.AddDate(0, 0, -windowDaysBefore)
	end := target.AddDate(0, 0, windowDaysAfter)
	return !gameDate.Before(start) && gameDate.Before(end)
}

// WindowClosed reports whether the settlement window around targetDate
// has fully elapsed, so missing box scores can no longer arrive.
func WindowClosed(targetDate, now time.Time) bool {
	return !now.Before(targetDate.AddDate(0, 0, windowDaysAfter))
}

// SearchWindow returns the [start, end) box-score window for a target date.
func SearchWindow(target time.Time) (time.Time, time.Time) {
	return target.AddDate(0, 0, -windowDaysBefore), target.AddDate(0, 0, windowDaysAfter)
}

func dateDistance(gameDate, target time.Time) time.Duration {
	d := gameDate.Sub(target)
	if d < 0 {
		return -d
	}
	return d
}

func noData(leg models.Leg, detail string) models.LegOutcome {
	return models.LegOutcome{Leg: leg, Result: models.LegNoData, Detail: detail}
}

func scoreDetail(log *models.GameLog) string {
	return fmt.Sprintf("%s %d-%d on %s",
		log.PlayerTeam, log.TeamScore, log.OpponentScore, log.GameDate.Format("2006-01-02"))
}
