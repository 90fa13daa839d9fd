package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arcraiders-data/lib/weapons"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteCollection(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(filepath.Join(dir, "data"))
	require.NoError(t, err)

	records := []map[string]string{
		{"id": "viper-i", "name": "Viper I"},
		{"id": "viper-ii", "name": "Viper II"},
	}
	require.NoError(t, writer.WriteCollection("items", records))

	pretty, err := os.ReadFile(filepath.Join(dir, "data", "items.json"))
	require.NoError(t, err)
	minified, err := os.ReadFile(filepath.Join(dir, "data", "items.min.json"))
	require.NoError(t, err)

	// both encodings decode to the same value, the pretty one is larger
	var fromPretty, fromMin []map[string]string
	require.NoError(t, json.Unmarshal(pretty, &fromPretty))
	require.NoError(t, json.Unmarshal(minified, &fromMin))
	require.Equal(t, fromPretty, fromMin)
	require.Greater(t, len(pretty), len(minified))
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir)
	require.NoError(t, err)

	updated := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, writer.WriteManifest(Manifest{
		Collections: []string{"items", "weapons"},
		Version:     "2026-08-01",
		LastUpdated: updated,
	}))

	raw, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)

	var manifest Manifest
	require.NoError(t, json.Unmarshal(raw, &manifest))
	require.Equal(t, []string{"items", "weapons"}, manifest.Collections)
	require.Equal(t, "2026-08-01", manifest.Version)
	require.True(t, manifest.LastUpdated.Equal(updated))
}

func TestExportWeaponsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weapons.xlsx")

	groups := []weapons.WeaponGroup{
		{
			BaseName:    "Viper",
			Subcategory: "SMG",
			Rarity:      "Uncommon",
			AmmoType:    "light",
			Description: "<p>Fast <b>and</b> loud.</p>",
			Levels: []weapons.LevelEntry{
				{Level: "I", LevelNumber: 1, Stats: weapons.LevelStats{Damage: 10, FireRate: 600}},
				{Level: "II", LevelNumber: 2, Stats: weapons.LevelStats{Damage: 11, FireRate: 660}},
			},
		},
	}
	require.NoError(t, ExportWeaponsXLSX(path, groups))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Weapons")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Base Name", rows[0][0])
	require.Equal(t, "Viper", rows[1][0])
	require.Equal(t, "I", rows[1][1])
	require.Equal(t, "II", rows[2][1])
	// description is flattened and only present on the level-I row
	require.Equal(t, "Fast and loud.", rows[1][16])
}
