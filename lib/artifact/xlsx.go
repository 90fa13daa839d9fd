package artifact

import (
	"fmt"

	"arcraiders-data/lib/htmlutil"
	"arcraiders-data/lib/weapons"

	"github.com/xuri/excelize/v2"
)

var weaponSheetHeader = []string{
	"Base Name", "Level", "Subcategory", "Rarity", "Ammo",
	"Damage", "Fire Rate", "DPS", "Range", "Stability", "Agility",
	"Stealth", "Magazine", "Weight", "Value", "Workbench", "Description",
}

// ExportWeaponsXLSX writes the weapon table to a spreadsheet, one row per
// upgrade level. Descriptions are flattened to plain text since cells
// cannot render the upstream HTML.
func ExportWeaponsXLSX(path string, groups []weapons.WeaponGroup) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Weapons"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for col, title := range weaponSheetHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, title)
	}

	row := 2
	for _, group := range groups {
		desc := htmlutil.PlainText(group.Description)
		for _, level := range group.Levels {
			values := []any{
				group.BaseName, level.Level, group.Subcategory, group.Rarity,
				group.AmmoType, level.Stats.Damage, level.Stats.FireRate,
				level.Stats.DamagePerSecond, level.Stats.Range,
				level.Stats.Stability, level.Stats.Agility,
				level.Stats.Stealth, level.Stats.MagazineSize,
				level.Stats.Weight, level.Value, level.Workbench,
			}
			// repeat the description only on the level-I row
			if level.LevelNumber == 1 {
				values = append(values, desc)
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}

	return f.SaveAs(path)
}
