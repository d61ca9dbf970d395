// Package downloader drives the full archive traversal: fetch the newspaper
// resource, filter its issues by date range, assemble each matching issue
// from its pages, and collect the results under collision-free output keys.
package downloader

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrew-pyle/chronam/internal/assembler"
	"github.com/andrew-pyle/chronam/pkg/chronam"
	"github.com/andrew-pyle/chronam/pkg/config"
	"github.com/andrew-pyle/chronam/pkg/logger"
	"github.com/andrew-pyle/chronam/pkg/ratelimit"
)

// Fetcher is the archive client contract the downloader depends on
type Fetcher interface {
	FetchNewspaper(ctx context.Context, url string) (*chronam.Newspaper, error)
	FetchIssue(ctx context.Context, url string) (*chronam.Issue, error)
	FetchPage(ctx context.Context, url string) (*chronam.Page, error)
	FetchText(ctx context.Context, url string) (string, error)
}

// Downloader orchestrates one newspaper download run
type Downloader struct {
	fetcher          Fetcher
	assembler        *assembler.Assembler
	concurrentIssues int
	logger           logger.Logger
}

// New creates a Downloader wired to the live archive API
func New(cfg *config.Config, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}

	client := chronam.NewClient(cfg.Download.FetchTimeout, log)
	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)

	return &Downloader{
		fetcher:          client,
		assembler:        assembler.New(client, cfg.Download.ConcurrentPages, limiter, log),
		concurrentIssues: cfg.Download.ConcurrentIssues,
		logger:           log,
	}
}

// NewWithFetcher creates a Downloader against an arbitrary fetcher. Used by
// tests and by callers that bring their own transport.
func NewWithFetcher(fetcher Fetcher, concurrentIssues, concurrentPages int, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	if concurrentIssues < 1 {
		concurrentIssues = 1
	}

	return &Downloader{
		fetcher:          fetcher,
		assembler:        assembler.New(fetcher, concurrentPages, nil, log),
		concurrentIssues: concurrentIssues,
		logger:           log,
	}
}

// FetchInfo fetches the newspaper resource for a locator without
// downloading any issues. Backs the info command.
func (d *Downloader) FetchInfo(ctx context.Context, locator string) (*chronam.Newspaper, error) {
	url, err := chronam.NormalizeLocator(locator)
	if err != nil {
		return nil, err
	}
	return d.fetcher.FetchNewspaper(ctx, url)
}

// Download walks the newspaper resource graph and returns the assembled
// issues whose dates fall within [start, end]. A failure to fetch the
// newspaper resource, an issue resource, or to parse any issue's date is
// fatal: in-flight fetches are cancelled and no partial output is returned.
// Page-level failures are recovered inside the assembler and surface only
// in the per-issue diagnostics.
func (d *Downloader) Download(ctx context.Context, locator string, start, end time.Time) (*OutputSet, error) {
	url, err := chronam.NormalizeLocator(locator)
	if err != nil {
		return nil, err
	}

	d.logger.InfoWithFields("starting newspaper download", map[string]interface{}{
		"url":   url,
		"start": start.Format(DateFormat),
		"end":   end.Format(DateFormat),
	})

	newspaper, err := d.fetcher.FetchNewspaper(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch newspaper resource: %w", err)
	}

	// Parse every listed date up front: a malformed date aborts the run
	// before any issue work starts, never a silent skip.
	var matched []chronam.IssueRef
	for _, ref := range newspaper.Issues {
		date, err := ParseDate(ref.DateIssued)
		if err != nil {
			return nil, err
		}
		if InRange(date, start, end) {
			matched = append(matched, ref)
		}
	}

	d.logger.InfoWithFields("issues matched date range", map[string]interface{}{
		"lccn":    newspaper.LCCN,
		"matched": len(matched),
		"listed":  len(newspaper.Issues),
	})

	// Assemble concurrently into traversal-indexed slots. Edition keys are
	// assigned in a serial pass afterwards so "-ed-2" assignment follows
	// traversal order no matter which assembly finishes first.
	type assembled struct {
		text  string
		diags assembler.Diagnostics
	}
	slots := make([]assembled, len(matched))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrentIssues)

	for i, ref := range matched {
		i, ref := i, ref
		g.Go(func() error {
			text, diags, err := d.assembler.Assemble(gctx, ref.URL)
			if err != nil {
				return fmt.Errorf("issue %s: %w", ref.DateIssued, err)
			}

			slots[i] = assembled{text: text, diags: diags}

			d.logger.InfoWithFields("issue assembled", map[string]interface{}{
				"date":          ref.DateIssued,
				"missing_pages": len(diags.Missing),
				"failed_pages":  len(diags.Failed),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	editions := NewEditions()
	set := NewOutputSet(newspaper.LCCN)
	for i, ref := range matched {
		key := editions.Key(ref.DateIssued)
		set.Add(AssembledIssue{
			Key:         key,
			Date:        ref.DateIssued,
			URL:         ref.URL,
			Text:        slots[i].text,
			Diagnostics: slots[i].diags,
		})
	}

	missing, failed := set.PageFailures()
	d.logger.InfoWithFields("newspaper download complete", map[string]interface{}{
		"lccn":          newspaper.LCCN,
		"issues":        set.Len(),
		"missing_pages": missing,
		"failed_pages":  failed,
	})

	return set, nil
}
