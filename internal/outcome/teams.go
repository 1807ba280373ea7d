package outcome

import "strings"

type teamEntry struct {
	abbr    string
	name    string
	aliases []string
}

// nbaTeams maps every common way a book or box score names a franchise
// to one canonical abbreviation. City-only aliases are omitted for Los
// Angeles since two franchises share the market.
var nbaTeams = []teamEntry{
	{"ATL", "Atlanta Hawks", []string{"atlanta", "hawks"}},
	{"BOS", "Boston Celtics", []string{"boston", "celtics"}},
	{"BKN", "Brooklyn Nets", []string{"brooklyn", "nets"}},
	{"CHA", "Charlotte Hornets", []string{"charlotte", "hornets"}},
	{"CHI", "Chicago Bulls", []string{"chicago", "bulls"}},
	{"CLE", "Cleveland Cavaliers", []string{"cleveland", "cavaliers", "cavs"}},
	{"DAL", "Dallas Mavericks", []string{"dallas", "mavericks", "mavs"}},
	{"DEN", "Denver Nuggets", []string{"denver", "nuggets"}},
	{"DET", "Detroit Pistons", []string{"detroit", "pistons"}},
	{"GSW", "Golden State Warriors", []string{"golden state", "warriors"}},
	{"HOU", "Houston Rockets", []string{"houston", "rockets"}},
	{"IND", "Indiana Pacers", []string{"indiana", "pacers"}},
	{"LAC", "Los Angeles Clippers", []string{"la clippers", "clippers"}},
	{"LAL", "Los Angeles Lakers", []string{"la lakers", "lakers"}},
	{"MEM", "Memphis Grizzlies", []string{"memphis", "grizzlies"}},
	{"MIA", "Miami Heat", []string{"miami", "heat"}},
	{"MIL", "Milwaukee Bucks", []string{"milwaukee", "bucks"}},
	{"MIN", "Minnesota Timberwolves", []string{"minnesota", "timberwolves", "wolves"}},
	{"NOP", "New Orleans Pelicans", []string{"new orleans", "pelicans", "pels"}},
	{"NYK", "New York Knicks", []string{"new york", "knicks"}},
	{"OKC", "Oklahoma City Thunder", []string{"oklahoma city", "thunder"}},
	{"ORL", "Orlando Magic", []string{"orlando", "magic"}},
	{"PHI", "Philadelphia 76ers", []string{"philadelphia", "76ers", "sixers"}},
	{"PHX", "Phoenix Suns", []string{"phoenix", "suns"}},
	{"POR", "Portland Trail Blazers", []string{"portland", "trail blazers", "blazers"}},
	{"SAC", "Sacramento Kings", []string{"sacramento", "kings"}},
	{"SAS", "San Antonio Spurs", []string{"san antonio", "spurs"}},
	{"TOR", "Toronto Raptors", []string{"toronto", "raptors"}},
	{"UTA", "Utah Jazz", []string{"utah", "jazz"}},
	{"WAS", "Washington Wizards", []string{"washington", "wizards"}},
}

var teamAliases = buildTeamAliases()

func buildTeamAliases() map[string]string {
	aliases := make(map[string]string, len(nbaTeams)*4)
	for _, team := range nbaTeams {
		aliases[strings.ToLower(team.abbr)] = team.abbr
		aliases[normalizeName(team.name)] = team.abbr
		for _, alias := range team.aliases {
			aliases[alias] = team.abbr
		}
	}
	return aliases
}

// ResolveTeam maps a team name to its canonical abbreviation, or ""
// when the name is not recognized.
func ResolveTeam(name string) string {
	return teamAliases[normalizeName(name)]
}

// sameTeam reports whether two team names refer to the same franchise.
// Containment and a shared final token handle truncated feed names,
// the alias table handles abbreviations and nicknames.
func sameTeam(a, b string) bool {
	na := normalizeName(a)
	nb := normalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	aFields := strings.Fields(na)
	bFields := strings.Fields(nb)
	aLast := aFields[len(aFields)-1]
	if len(aLast) > 3 && aLast == bFields[len(bFields)-1] {
		return true
	}

	if abbr := ResolveTeam(na); abbr != "" && abbr == ResolveTeam(nb) {
		return true
	}
	return false
}

// findTeamInText scans free text for a recognizable team reference,
// preferring the longest alias so "la clippers" beats "clippers".
func findTeamInText(text string) (string, bool) {
	normalized := " " + normalizeName(text) + " "
	bestAbbr := ""
	bestLen := 0
	for alias, abbr := range teamAliases {
		if len(alias) <= bestLen {
			continue
		}
		if strings.Contains(normalized, " "+alias+" ") {
			bestAbbr = abbr
			bestLen = len(alias)
		}
	}
	return bestAbbr, bestAbbr != ""
}
