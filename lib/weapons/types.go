package weapons

// BaseStats is the fixed-shape record of the level-I stat values a group
// is anchored on. Missing upstream fields default to zero, except
// firingMode which stays null.
type BaseStats struct {
	Damage          float64 `json:"damage"`
	FireRate        float64 `json:"fireRate"`
	Range           float64 `json:"range"`
	Stability       float64 `json:"stability"`
	Agility         float64 `json:"agility"`
	Stealth         float64 `json:"stealth"`
	MagazineSize    float64 `json:"magazineSize"`
	Weight          float64 `json:"weight"`
	FiringMode      *string `json:"firingMode"`
	DamagePerSecond float64 `json:"damagePerSecond"`
}

// LevelStats is the resolved stat record of one upgrade rank.
type LevelStats struct {
	Damage          float64 `json:"damage"`
	FireRate        float64 `json:"fireRate"`
	Range           float64 `json:"range"`
	Stability       float64 `json:"stability"`
	Agility         float64 `json:"agility"`
	Stealth         float64 `json:"stealth"`
	MagazineSize    float64 `json:"magazineSize"`
	Weight          float64 `json:"weight"`
	DamagePerSecond float64 `json:"damagePerSecond"`
}

// DirectOverrides flags stats whose per-level value is authored upstream
// rather than derived from a percentage modifier. Fire rate is the only
// stat the upstream does this to.
type DirectOverrides struct {
	FireRate bool `json:"fireRate"`
}

// LevelEntry is one upgrade rank within a WeaponGroup.
type LevelEntry struct {
	Level       string `json:"level"`
	LevelNumber int    `json:"levelNumber"`
	ID          string `json:"id"`
	Value       int    `json:"value"`
	Workbench   string `json:"workbench,omitempty"`
	Icon        string `json:"icon,omitempty"`

	Stats LevelStats `json:"stats"`
	// running maximum of every modifier seen at this rank or below
	Modifiers map[string]float64 `json:"modifiers"`
	// modifiers authored on exactly this rank, for display
	ActiveModifiers    map[string]float64 `json:"activeModifiers"`
	HasDirectOverrides DirectOverrides    `json:"hasDirectOverrides"`
}

// WeaponGroup is one upgrade chain: every record sharing a base weapon
// name, ordered ascending by upgrade rank.
type WeaponGroup struct {
	ID          string       `json:"id"`
	BaseName    string       `json:"baseName"`
	Description string       `json:"description,omitempty"`
	Icon        string       `json:"icon,omitempty"`
	Rarity      string       `json:"rarity,omitempty"`
	Subcategory string       `json:"subcategory,omitempty"`
	AmmoType    string       `json:"ammoType,omitempty"`
	BaseStats   BaseStats    `json:"baseStats"`
	Levels      []LevelEntry `json:"levels"`
}
