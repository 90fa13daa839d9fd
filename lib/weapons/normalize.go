package weapons

import (
	"slices"
	"strings"

	"arcraiders-data/lib/metaforge"
)

// ItemType is the upstream category weapon records carry.
const ItemType = "Weapon"

// Normalize turns the flat items collection into upgrade-aware weapon
// groups with fully resolved per-level stats. Pure function of its input:
// the same items always produce the same groups, in first-appearance
// order.
func Normalize(items []metaforge.Item) []WeaponGroup {
	var order []string
	grouped := map[string][]metaforge.Item{}

	for _, item := range items {
		if item.ItemType != ItemType {
			continue
		}
		base, _ := SplitBaseName(item.Name)
		if _, seen := grouped[base]; !seen {
			order = append(order, base)
		}
		grouped[base] = append(grouped[base], item)
	}

	groups := make([]WeaponGroup, 0, len(order))
	for _, base := range order {
		groups = append(groups, buildGroup(base, grouped[base]))
	}
	return groups
}

func buildGroup(baseName string, records []metaforge.Item) WeaponGroup {
	slices.SortStableFunc(records, func(a, b metaforge.Item) int {
		_, la := SplitBaseName(a.Name)
		_, lb := SplitBaseName(b.Name)
		return LevelNumber(la) - LevelNumber(lb)
	})

	root := records[0]
	base := baseStatsOf(root)

	group := WeaponGroup{
		ID:          StripLevelSuffix(root.ID),
		BaseName:    baseName,
		Description: description(root),
		Icon:        root.Icon,
		Rarity:      root.Rarity,
		Subcategory: NormalizeSubcategory(root.Subcategory, baseName),
		AmmoType:    ammoType(root),
		BaseStats:   base,
		Levels:      make([]LevelEntry, 0, len(records)),
	}

	cumulative := map[string]float64{}
	for i, rec := range records {
		_, label := SplitBaseName(rec.Name)
		active := rec.StatBlock.Modifiers()
		for key, val := range active {
			if val > cumulative[key] {
				cumulative[key] = val
			}
		}

		entry := LevelEntry{
			Level:              label,
			LevelNumber:        i + 1,
			ID:                 rec.ID,
			Value:              rec.Value,
			Workbench:          rec.Workbench,
			Icon:               rec.Icon,
			Stats:              resolveStats(base, rec, i),
			Modifiers:          cloneModifiers(cumulative),
			ActiveModifiers:    active,
			HasDirectOverrides: DirectOverrides{FireRate: isFireRateOverride(base, rec, i)},
		}
		if entry.Icon == "" {
			entry.Icon = group.Icon
		}
		group.Levels = append(group.Levels, entry)
	}

	return group
}

func baseStatsOf(root metaforge.Item) BaseStats {
	s := root.StatBlock
	var firingMode *string
	if s.FiringMode != "" {
		mode := s.FiringMode
		firingMode = &mode
	}
	return BaseStats{
		Damage:          orZero(s.Damage),
		FireRate:        orZero(s.FireRate),
		Range:           orZero(s.Range),
		Stability:       orZero(s.Stability),
		Agility:         orZero(s.Agility),
		Stealth:         orZero(s.Stealth),
		MagazineSize:    orZero(s.MagazineSize),
		Weight:          orZero(s.Weight),
		FiringMode:      firingMode,
		DamagePerSecond: orZero(s.DamagePerSecond),
	}
}

// isFireRateOverride reports whether this level's fire rate is an authored
// replacement: the record carries its own fire rate that differs from the
// base, provides no percentage modifier to explain it, and is not the base
// level itself.
func isFireRateOverride(base BaseStats, rec metaforge.Item, levelIndex int) bool {
	s := rec.StatBlock
	return levelIndex > 0 &&
		s.FireRate != nil &&
		*s.FireRate != base.FireRate &&
		s.IncreasedFireRate == nil
}

func resolveStats(base BaseStats, rec metaforge.Item, levelIndex int) LevelStats {
	s := rec.StatBlock
	increase := orZero(s.IncreasedFireRate)

	fireRate := base.FireRate * (1 + increase/100)
	if isFireRateOverride(base, rec, levelIndex) {
		fireRate = *s.FireRate
	}

	return LevelStats{
		Damage:       orElse(s.Damage, base.Damage),
		FireRate:     fireRate,
		Range:        orElse(s.Range, base.Range),
		Stability:    orElse(s.Stability, base.Stability),
		Agility:      orElse(s.Agility, base.Agility),
		Stealth:      orElse(s.Stealth, base.Stealth),
		MagazineSize: orElse(s.MagazineSize, base.MagazineSize),
		Weight:       orElse(s.Weight, base.Weight),
		// dps is always modifier-derived, never directly overridden
		DamagePerSecond: base.DamagePerSecond * (1 + increase/100),
	}
}

func description(root metaforge.Item) string {
	if root.Description != "" {
		return root.Description
	}
	return root.FlavorText
}

func ammoType(root metaforge.Item) string {
	ammo := root.AmmoType
	if ammo == "" {
		ammo = root.StatBlock.Ammo
	}
	return strings.ToLower(ammo)
}

func cloneModifiers(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func orElse(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
