package weapons

import "strings"

// The upstream's declared subcategories are unreliable for a handful of
// weapon families, so a hand-curated correction layer runs after the
// declared value. Extend archetypeByName with new entries when upstream
// data drifts; never reorder the precedence (substring match beats the
// declared field).

var subcategoryRenames = map[string]string{
	"Hand Cannon":  "Pistol",
	"Battle Rifle": "Rifle",
}

var archetypeByName = []struct {
	Substring   string
	Subcategory string
}{
	{"Ferro", "Rifle"},
	{"Renegade", "Rifle"},
	{"Torrente", "LMG"},
	{"Osprey", "Sniper Rifle"},
	{"Stitcher", "SMG"},
	{"Il Toro", "Shotgun"},
}

// NormalizeSubcategory resolves the subcategory for a weapon group from
// its level-I record's declared subcategory and name.
func NormalizeSubcategory(declared, name string) string {
	sub := strings.TrimSpace(declared)
	if renamed, ok := subcategoryRenames[sub]; ok {
		sub = renamed
	}
	for _, rule := range archetypeByName {
		if strings.Contains(name, rule.Substring) {
			return rule.Subcategory
		}
	}
	return sub
}
