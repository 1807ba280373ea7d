package outcome

import (
	"strings"
	"unicode"
)

// Match grades for player-name resolution. Candidates under the accept
// floor are ignored.
const (
	matchExact            = 1.00
	matchSubstring        = 0.90
	matchLastFirstInitial = 0.85
	matchLastName         = 0.70
	matchAccept           = 0.70
)

var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
}

// normalizeName lowercases, strips punctuation and drops generational
// suffixes so "Jaren Jackson Jr." and "jaren jackson" compare equal.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	for len(fields) > 1 {
		if _, ok := nameSuffixes[fields[len(fields)-1]]; !ok {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// playerMatchScore grades how well a candidate name matches the target.
func playerMatchScore(target, candidate string) float64 {
	t := normalizeName(target)
	c := normalizeName(candidate)
	if t == "" || c == "" {
		return 0
	}
	if t == c {
		return matchExact
	}
	if strings.Contains(t, c) || strings.Contains(c, t) {
		return matchSubstring
	}

	tFields := strings.Fields(t)
	cFields := strings.Fields(c)
	if tFields[len(tFields)-1] != cFields[len(cFields)-1] {
		return 0
	}
	if tFields[0][0] == cFields[0][0] {
		return matchLastFirstInitial
	}
	return matchLastName
}
