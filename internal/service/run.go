// Package service ties the pipeline together: load channels, fetch and
// extract each one in order, then publish the playlist and status artifacts.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tubelink/tubelink/internal/cache"
	"github.com/tubelink/tubelink/internal/extractor"
	"github.com/tubelink/tubelink/internal/fetcher"
	"github.com/tubelink/tubelink/internal/hls"
	"github.com/tubelink/tubelink/internal/models"
	"github.com/tubelink/tubelink/internal/playlist"
	"github.com/tubelink/tubelink/internal/store"
)

// Runner holds the dependencies for extraction runs. Cache and Store are
// optional; a nil value disables that integration.
type Runner struct {
	Fetcher       *fetcher.Fetcher
	Cache         *cache.Redis
	ManifestTTL   time.Duration
	Store         store.Store
	ProbeVariants bool
}

// Summary reports what a run produced.
type Summary struct {
	Results     []models.Result
	Live        int
	Unavailable int
	Failed      int
}

// Run processes every channel sequentially in list order, writes
// playlist.m3u and status.json into outDir, and records the run in the
// store when one is configured. One channel failing never stops the others;
// Run only returns an error when the output files cannot be written or the
// run is cancelled.
func (rn *Runner) Run(ctx context.Context, channels []models.Channel, outDir string) (*Summary, error) {
	started := time.Now().UTC()
	summary := &Summary{Results: make([]models.Result, 0, len(channels))}

	for i := range channels {
		// Check for cancellation between channels so an external stop (CI
		// timeout, signal) does not start new fetches.
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled: %w", err)
		}

		res := rn.ExtractChannel(ctx, channels[i])
		switch res.Status {
		case models.StatusLive:
			summary.Live++
			log.Printf("channel %s: live, manifest resolved", res.Channel.ID)
		case models.StatusUnavailable:
			summary.Unavailable++
			log.Printf("channel %s: not live", res.Channel.ID)
		default:
			summary.Failed++
			log.Printf("channel %s: failed: %s", res.Channel.ID, res.Err)
		}
		summary.Results = append(summary.Results, res)
	}

	if err := playlist.WriteFiles(outDir, summary.Results); err != nil {
		return nil, fmt.Errorf("write outputs: %w", err)
	}
	log.Printf("run complete: %d live, %d unavailable, %d failed (wrote %s, %s)",
		summary.Live, summary.Unavailable, summary.Failed, playlist.M3UFile, playlist.StatusFile)

	if rn.Store != nil {
		run := store.RunRecord{
			ID:          uuid.New(),
			StartedAt:   started,
			FinishedAt:  time.Now().UTC(),
			Live:        summary.Live,
			Unavailable: summary.Unavailable,
			Failed:      summary.Failed,
		}
		if err := rn.Store.RecordRun(ctx, run, summary.Results); err != nil {
			// History is an audit trail, not a dependency of the artifacts.
			log.Printf("record run: %v", err)
		}
	}
	return summary, nil
}

// ExtractChannel resolves one channel's manifest URL: Redis cache first
// (when configured), then fetch and extract. Fetch and extraction errors are
// converted into a failed result, never propagated.
func (rn *Runner) ExtractChannel(ctx context.Context, ch models.Channel) models.Result {
	res := models.Result{Channel: ch, ExtractedAt: time.Now().UTC()}

	if rn.Cache != nil {
		if url, err := cache.Get[string](ctx, rn.Cache, cache.ManifestKey(ch.ID)); err == nil && url != "" {
			log.Printf("channel %s: using cached manifest url", ch.ID)
			res.Status = models.StatusLive
			res.URL = url
			return res
		}
	}

	page, err := rn.Fetcher.FetchPage(ctx, ch.URL)
	if err != nil {
		res.Status = models.StatusFailed
		res.Err = fmt.Sprintf("fetch: %v", err)
		return res
	}

	url, err := extractor.ManifestURL(page)
	switch {
	case err == nil:
	case errors.Is(err, extractor.ErrNotLive):
		res.Status = models.StatusUnavailable
		return res
	default:
		res.Status = models.StatusFailed
		res.Err = fmt.Sprintf("extract: %v", err)
		return res
	}

	if rn.ProbeVariants {
		url = rn.probeBestVariant(ctx, ch.ID, url)
	}

	res.Status = models.StatusLive
	res.URL = url

	if rn.Cache != nil {
		ttl := rn.ManifestTTL
		if ttl <= 0 {
			ttl = cache.DefaultManifestTTL
		}
		if err := cache.Set(ctx, rn.Cache, cache.ManifestKey(ch.ID), url, ttl); err != nil {
			log.Printf("channel %s: cache manifest url: %v", ch.ID, err)
		}
	}
	return res
}

// probeBestVariant downloads the master manifest and swaps in the
// highest-bandwidth variant URL. Any probe failure keeps the master URL;
// a live channel is never demoted by a failed probe.
func (rn *Runner) probeBestVariant(ctx context.Context, channelID, manifestURL string) string {
	master, err := hls.FetchMaster(ctx, rn.Fetcher.Client(), manifestURL)
	if err != nil {
		log.Printf("channel %s: probe manifest: %v", channelID, err)
		return manifestURL
	}
	best, err := hls.PickBestVariant(master, manifestURL)
	if err != nil {
		log.Printf("channel %s: pick variant: %v", channelID, err)
		return manifestURL
	}
	return best
}
