// Package pipeline runs one full data refresh: every collection is fetched
// from the upstream API and persisted as received, weapons are derived from
// the items records, and
// a manifest closes the run. Everything is strictly sequential; the only
// suspension points are the fetch delays inside the client.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arcraiders-data/lib/artifact"
	"arcraiders-data/lib/metaforge"
	"arcraiders-data/lib/runlog"
	"arcraiders-data/lib/weapons"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("pipeline")

type Options struct {
	Client *metaforge.Client
	Writer artifact.Writer
	// collection names to fetch; defaults to metaforge.Collections
	Collections []string
	// map names to fetch location data for, may be empty
	Maps []string
	// version tag stamped into the manifest and run ledger
	Version string
	// optional run ledger
	Ledger *runlog.Store
}

type Result struct {
	Collections  []runlog.CollectionResult
	WeaponGroups int
}

func Run(ctx context.Context, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "pipeline:Run")
	defer span.End()

	if len(opts.Collections) == 0 {
		opts.Collections = metaforge.Collections
	}
	started := time.Now()

	var result Result
	var written []string

	for _, name := range opts.Collections {
		records, stats, err := opts.Client.FetchCollection(ctx, name)
		if err != nil {
			return result, fmt.Errorf("fetch %s: %w", name, err)
		}
		if err := opts.Writer.WriteCollection(name, records); err != nil {
			return result, err
		}
		written = append(written, name)
		result.Collections = append(result.Collections, collectionResult(name, stats))

		if name == "items" {
			items, err := metaforge.DecodeItems(records)
			if err != nil {
				return result, fmt.Errorf("decode items: %w", err)
			}
			groups := weapons.Normalize(items)
			if err := opts.Writer.WriteCollection("weapons", groups); err != nil {
				return result, err
			}
			written = append(written, "weapons")
			result.WeaponGroups = len(groups)
			slog.InfoContext(ctx, "normalized weapons",
				"items", len(items),
				"groups", len(groups),
			)
		}
	}

	for _, mapName := range opts.Maps {
		records, stats, err := opts.Client.FetchMap(ctx, mapName)
		if err != nil {
			return result, fmt.Errorf("fetch map %s: %w", mapName, err)
		}
		name := "map-" + mapName
		if err := opts.Writer.WriteCollection(name, records); err != nil {
			return result, err
		}
		written = append(written, name)
		result.Collections = append(result.Collections, collectionResult(name, stats))
	}

	err := opts.Writer.WriteManifest(artifact.Manifest{
		Collections: written,
		Version:     opts.Version,
		LastUpdated: time.Now().UTC(),
	})
	if err != nil {
		return result, err
	}

	if opts.Ledger != nil {
		err := opts.Ledger.Record(ctx, runlog.Run{
			Version:     opts.Version,
			StartedAt:   started,
			FinishedAt:  time.Now(),
			Collections: result.Collections,
		})
		if err != nil {
			return result, fmt.Errorf("record run: %w", err)
		}
	}

	return result, nil
}

func collectionResult(name string, stats metaforge.FetchStats) runlog.CollectionResult {
	return runlog.CollectionResult{
		Collection:  name,
		Pages:       stats.Pages,
		Records:     stats.Records,
		Partial:     stats.Partial,
		RateLimited: stats.RateLimited,
		Duration:    stats.Duration,
	}
}
