package metaforge

import (
	"encoding/json"
	"fmt"
)

// Item is one record from the upstream collection endpoint, decoded as-is.
// Records are never mutated after decoding; the normalizer derives its own
// structures from them.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ItemType    string    `json:"item_type"`
	Rarity      string    `json:"rarity"`
	Description string    `json:"description,omitempty"`
	FlavorText  string    `json:"flavor_text,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Value       int       `json:"value,omitempty"`
	Workbench   string    `json:"workbench,omitempty"`
	AmmoType    string    `json:"ammo_type,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	StatBlock   StatBlock `json:"stat_block,omitempty"`
}

// StatBlock holds the per-record stats. Base stats and upgrade modifiers
// share one upstream object. Numeric fields are pointers because "absent"
// and "zero" mean different things downstream: an absent stat falls back
// to the group's base value, a present one replaces it.
type StatBlock struct {
	Damage          *float64 `json:"damage,omitempty"`
	FireRate        *float64 `json:"fireRate,omitempty"`
	Range           *float64 `json:"range,omitempty"`
	Stability       *float64 `json:"stability,omitempty"`
	Agility         *float64 `json:"agility,omitempty"`
	Stealth         *float64 `json:"stealth,omitempty"`
	MagazineSize    *float64 `json:"magazineSize,omitempty"`
	Weight          *float64 `json:"weight,omitempty"`
	DamagePerSecond *float64 `json:"damagePerSecond,omitempty"`
	FiringMode      string   `json:"firingMode,omitempty"`
	Ammo            string   `json:"ammo,omitempty"`

	IncreasedFireRate             *float64 `json:"increasedFireRate,omitempty"`
	ReducedReloadTime             *float64 `json:"reducedReloadTime,omitempty"`
	IncreasedBulletVelocity       *float64 `json:"increasedBulletVelocity,omitempty"`
	ReducedDurabilityBurnRate     *float64 `json:"reducedDurabilityBurnRate,omitempty"`
	ReducedMaxShotDispersion      *float64 `json:"reducedMaxShotDispersion,omitempty"`
	ReducedPerShotDispersion      *float64 `json:"reducedPerShotDispersion,omitempty"`
	ReducedDispersionRecoveryTime *float64 `json:"reducedDispersionRecoveryTime,omitempty"`
	ReducedRecoilRecoveryTime     *float64 `json:"reducedRecoilRecoveryTime,omitempty"`
	IncreasedRecoilRecoveryTime   *float64 `json:"increasedRecoilRecoveryTime,omitempty"`
}

// Modifiers returns the upgrade modifiers present on this stat block,
// keyed by their upstream field names. Absent modifiers are omitted.
func (s StatBlock) Modifiers() map[string]float64 {
	fields := []struct {
		key string
		val *float64
	}{
		{"increasedFireRate", s.IncreasedFireRate},
		{"reducedReloadTime", s.ReducedReloadTime},
		{"increasedBulletVelocity", s.IncreasedBulletVelocity},
		{"reducedDurabilityBurnRate", s.ReducedDurabilityBurnRate},
		{"reducedMaxShotDispersion", s.ReducedMaxShotDispersion},
		{"reducedPerShotDispersion", s.ReducedPerShotDispersion},
		{"reducedDispersionRecoveryTime", s.ReducedDispersionRecoveryTime},
		{"reducedRecoilRecoveryTime", s.ReducedRecoilRecoveryTime},
		{"increasedRecoilRecoveryTime", s.IncreasedRecoilRecoveryTime},
	}

	out := map[string]float64{}
	for _, f := range fields {
		if f.val != nil {
			out[f.key] = *f.val
		}
	}
	return out
}

// DecodeItems interprets raw collection records as items. Fields beyond
// the item shape are ignored here, not lost: persistence writes the raw
// records, this view exists for the normalizer.
func DecodeItems(records []json.RawMessage) ([]Item, error) {
	items := make([]Item, len(records))
	for i, record := range records {
		if err := json.Unmarshal(record, &items[i]); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
	}
	return items, nil
}
