package weapons

import (
	"regexp"
	"strings"
)

// The upstream encodes upgrade ranks as a trailing roman numeral on the
// display name ("Viper II"). That suffix is the only grouping key the
// schema offers, so all parsing of it lives here; if a stable family id
// ever appears upstream, this file is the one to replace.

var levelSuffix = regexp.MustCompile(`(?i)\s+(I|II|III|IV|V)$`)

var levelRank = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5,
}

// SplitBaseName splits a display name into the base weapon name and its
// upgrade-level label. Names without a suffix are level I.
func SplitBaseName(name string) (base string, level string) {
	loc := levelSuffix.FindStringIndex(name)
	if loc == nil {
		return strings.TrimSpace(name), "I"
	}
	base = strings.TrimSpace(name[:loc[0]])
	level = strings.ToUpper(strings.TrimSpace(name[loc[0]:loc[1]]))
	return base, level
}

// LevelNumber maps a roman-numeral level label to its 1-based rank.
// Unparseable labels rank as 1.
func LevelNumber(level string) int {
	if n, ok := levelRank[strings.ToUpper(level)]; ok {
		return n
	}
	return 1
}

var idLevelSuffix = regexp.MustCompile(`(?i)[\s_-]+(I|II|III|IV|V)$`)

// StripLevelSuffix removes a trailing level marker from a record id. Ids
// follow the same suffix convention as names but separate with "-" or "_"
// as often as with a space.
func StripLevelSuffix(id string) string {
	return strings.TrimSpace(idLevelSuffix.ReplaceAllString(id, ""))
}
