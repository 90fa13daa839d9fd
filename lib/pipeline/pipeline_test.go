package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arcraiders-data/lib/artifact"
	"arcraiders-data/lib/metaforge"
	"arcraiders-data/lib/runlog"
	"arcraiders-data/lib/telemetry"
	"arcraiders-data/lib/weapons"

	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 {
	return &v
}

func upstream(t *testing.T) *httptest.Server {
	collections := map[string]any{
		"items": []metaforge.Item{
			{
				ID: "ferro-i", Name: "Ferro I", ItemType: "Weapon",
				Subcategory: "Assault Rifle",
				StatBlock:   metaforge.StatBlock{FireRate: fptr(100), DamagePerSecond: fptr(500)},
			},
			{
				ID: "ferro-ii", Name: "Ferro II", ItemType: "Weapon",
				StatBlock: metaforge.StatBlock{IncreasedFireRate: fptr(20)},
			},
			{ID: "bandage", Name: "Bandage", ItemType: "Misc"},
		},
		"factions": []metaforge.Item{
			{ID: "speranza", Name: "Speranza", ItemType: "Faction"},
		},
		// quests carry fields no struct in this repo models
		"quests": []map[string]any{
			{
				"id": "q-supply", "name": "Supply Lines", "item_type": "Quest",
				"giver":      "Celeste",
				"objectives": []string{"Reach the dam"},
				"rewards":    map[string]any{"xp": 500},
			},
		},
		"maps/dam-battlegrounds": []map[string]any{
			{"id": "loot-1", "name": "Weapons Crate", "x": 120.5, "y": 88.0},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path[1:]
		records, ok := collections[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(records)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFullRun(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "lib/pipeline")
	t.Cleanup(cleanup)

	server := upstream(t)
	dir := t.TempDir()

	client, err := metaforge.NewClient(metaforge.ClientOptions{
		BaseUrl:        server.URL,
		PageDelay:      time.Millisecond,
		RateLimitDelay: time.Millisecond,
		RetryDelay:     time.Millisecond,
	})
	require.NoError(t, err)

	writer, err := artifact.NewWriter(dir)
	require.NoError(t, err)

	db, err := runlog.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ledger := runlog.NewStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	result, err := Run(ctx, Options{
		Client:  client,
		Writer:  writer,
		Maps:    []string{"dam-battlegrounds"},
		Version: "test",
		Ledger:  &ledger,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.WeaponGroups)
	require.Len(t, result.Collections, 4)

	for _, file := range []string{
		"items.json", "items.min.json",
		"factions.json", "factions.min.json",
		"quests.json", "quests.min.json",
		"weapons.json", "weapons.min.json",
		"map-dam-battlegrounds.json", "map-dam-battlegrounds.min.json",
		"manifest.json",
	} {
		_, err := os.Stat(filepath.Join(dir, file))
		require.NoError(t, err, file)
	}

	// persisted collections are verbatim upstream records, not a
	// projection through the item shape
	raw, err := os.ReadFile(filepath.Join(dir, "quests.json"))
	require.NoError(t, err)
	var quests []map[string]any
	require.NoError(t, json.Unmarshal(raw, &quests))
	require.Len(t, quests, 1)
	require.Equal(t, "Celeste", quests[0]["giver"])
	require.Contains(t, quests[0], "objectives")
	require.Contains(t, quests[0], "rewards")

	raw, err = os.ReadFile(filepath.Join(dir, "map-dam-battlegrounds.json"))
	require.NoError(t, err)
	var locations []map[string]any
	require.NoError(t, json.Unmarshal(raw, &locations))
	require.Len(t, locations, 1)
	require.Equal(t, "Weapons Crate", locations[0]["name"])
	require.Equal(t, 120.5, locations[0]["x"])

	// the derived weapons artifact carries resolved stats
	raw, err = os.ReadFile(filepath.Join(dir, "weapons.json"))
	require.NoError(t, err)
	var groups []weapons.WeaponGroup
	require.NoError(t, json.Unmarshal(raw, &groups))
	require.Len(t, groups, 1)
	require.Equal(t, "Ferro", groups[0].BaseName)
	require.Equal(t, "Rifle", groups[0].Subcategory)
	require.Len(t, groups[0].Levels, 2)
	require.Equal(t, float64(120), groups[0].Levels[1].Stats.FireRate)

	raw, err = os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	var manifest artifact.Manifest
	require.NoError(t, json.Unmarshal(raw, &manifest))
	require.Equal(t, "test", manifest.Version)
	require.Equal(t,
		[]string{"items", "weapons", "factions", "quests", "map-dam-battlegrounds"},
		manifest.Collections)
	require.False(t, manifest.LastUpdated.IsZero())

	runs, err := ledger.History(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "test", runs[0].Version)
	require.Len(t, runs[0].Collections, 4)
}

func TestRunSubsetOfCollections(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "lib/pipeline")
	t.Cleanup(cleanup)

	server := upstream(t)
	dir := t.TempDir()

	client, err := metaforge.NewClient(metaforge.ClientOptions{
		BaseUrl:   server.URL,
		PageDelay: time.Millisecond,
	})
	require.NoError(t, err)
	writer, err := artifact.NewWriter(dir)
	require.NoError(t, err)

	result, err := Run(context.Background(), Options{
		Client:      client,
		Writer:      writer,
		Collections: []string{"factions"},
		Version:     "test",
	})
	require.NoError(t, err)
	require.Zero(t, result.WeaponGroups)

	_, err = os.Stat(filepath.Join(dir, "factions.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "items.json"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "weapons.json"))
	require.True(t, os.IsNotExist(err))
}
