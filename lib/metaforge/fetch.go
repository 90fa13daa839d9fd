package metaforge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FetchStats describes what one collection fetch actually did.
type FetchStats struct {
	Pages       int
	Records     int
	RateLimited int
	// true when a transient failure was swallowed and the accumulated
	// records were accepted as-is
	Partial  bool
	Duration time.Duration
}

// FetchCollection retrieves every page of the named collection, in page
// order. Pages are requested strictly sequentially starting at 1; an empty
// page or a page shorter than PageSize marks the end of the collection.
//
// Records come back as raw JSON so callers that persist a collection keep
// every field the upstream sent, not just the ones the Item struct models.
// Use DecodeItems where the item shape is needed.
//
// HTTP 429 is retried on a fixed delay with no cap. Any other failure is
// retried on a longer fixed delay while the collection is still empty;
// once records have accumulated the failure is swallowed and the partial
// result accepted. Availability over completeness, the next run picks up
// the rest.
func (c *Client) FetchCollection(ctx context.Context, name string) ([]json.RawMessage, FetchStats, error) {
	return c.fetchPages(ctx, name, name)
}

// FetchMap retrieves the location-data collection for a single map. Same
// pagination contract as FetchCollection.
func (c *Client) FetchMap(ctx context.Context, mapName string) ([]json.RawMessage, FetchStats, error) {
	return c.fetchPages(ctx, "map:"+mapName, "maps/"+mapName)
}

func (c *Client) fetchPages(ctx context.Context, name, endpoint string) ([]json.RawMessage, FetchStats, error) {
	ctx, span := tracer.Start(ctx, "client:FetchCollection")
	defer span.End()
	span.SetAttributes(attribute.String("collection", name))

	start := time.Now()

	var all []json.RawMessage
	var stats FetchStats
	page := 1

	for {
		records, retry, err := c.fetchPage(ctx, endpoint, page, &stats)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch aborted")
			stats.Duration = time.Since(start)
			return all, stats, err
		}
		if retry {
			continue
		}
		if stats.Partial {
			break
		}

		all = append(all, records...)
		stats.Pages++
		stats.Records = len(all)

		slog.InfoContext(ctx, "fetched page",
			"collection", name,
			"page", page,
			"records", len(records),
			"total", len(all),
		)

		if len(records) < PageSize {
			break
		}

		if err := sleep(ctx, c.pageDelay); err != nil {
			stats.Duration = time.Since(start)
			return all, stats, err
		}
		page++
	}

	stats.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("pages", stats.Pages),
		attribute.Int("records", stats.Records),
	)
	return all, stats, nil
}

// fetchPage requests one page. retry=true means the caller should request
// the same page again; a page-level failure after progress has been made
// flips stats.Partial instead and the loop ends with what it has.
func (c *Client) fetchPage(ctx context.Context, endpoint string, page int, stats *FetchStats) (records []json.RawMessage, retry bool, err error) {
	res, reqErr := c.Http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		Get(endpoint)

	switch {
	case reqErr != nil:
		return c.transient(ctx, endpoint, page, stats, reqErr)
	case res.StatusCode() == 429:
		stats.RateLimited++
		slog.WarnContext(ctx, "rate limited by upstream, backing off",
			"endpoint", endpoint,
			"page", page,
			"attempts", stats.RateLimited,
			"delay", c.rateLimitDelay,
		)
		if err := sleep(ctx, c.rateLimitDelay); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	case !res.IsSuccess():
		return c.transient(ctx, endpoint, page, stats, fmt.Errorf("unexpected status %d", res.StatusCode()))
	}

	records, decodeErr := decodePage(res.Body())
	if decodeErr != nil {
		return c.transient(ctx, endpoint, page, stats, fmt.Errorf("decode page: %w", decodeErr))
	}
	return records, false, nil
}

func (c *Client) transient(ctx context.Context, endpoint string, page int, stats *FetchStats, cause error) ([]json.RawMessage, bool, error) {
	if stats.Records > 0 {
		slog.WarnContext(ctx, "transient failure after progress, accepting partial result",
			"endpoint", endpoint,
			"page", page,
			"records", stats.Records,
			"err", cause,
		)
		stats.Partial = true
		return nil, false, nil
	}

	slog.WarnContext(ctx, "transient failure, retrying",
		"endpoint", endpoint,
		"page", page,
		"delay", c.retryDelay,
		"err", cause,
	)
	if err := sleep(ctx, c.retryDelay); err != nil {
		return nil, false, err
	}
	return nil, true, nil
}

// decodePage accepts either a bare array or an object wrapping the array
// in a "data" field, both of which the upstream has been seen to return.
// Records stay raw; decoding into a concrete shape happens at the caller
// that needs one.
func decodePage(body []byte) ([]json.RawMessage, error) {
	var bare []json.RawMessage
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	var wrapped struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Data == nil {
		return nil, fmt.Errorf("body is neither an array nor a data object")
	}
	return wrapped.Data, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
