// Package assembler reconstructs the full text of a newspaper issue from
// its per-page OCR fragments. Pages are fetched through a bounded worker
// pool and concatenated in their declared sequence order; a page-level
// fetch failure is substituted with a fixed placeholder and reported in the
// returned diagnostics, never as a run failure.
package assembler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/andrew-pyle/chronam/pkg/chronam"
	"github.com/andrew-pyle/chronam/pkg/logger"
	"github.com/andrew-pyle/chronam/pkg/ratelimit"
)

// Placeholder texts substituted for pages that could not be fetched
const (
	// MissingPagePlaceholder stands in for a page the server never
	// answered for (connection or timeout failure).
	MissingPagePlaceholder = "Likely Missing Page: Not digitized, published"

	// FailedPagePlaceholder stands in for a page the server answered
	// for but could not serve (non-success status or bad body).
	FailedPagePlaceholder = "Server didn't return any text"
)

// Fetcher is the subset of the archive client the assembler needs
type Fetcher interface {
	FetchIssue(ctx context.Context, url string) (*chronam.Issue, error)
	FetchPage(ctx context.Context, url string) (*chronam.Page, error)
	FetchText(ctx context.Context, url string) (string, error)
}

// Diagnostics records the pages of one issue that could not be fetched.
// Missing pages failed at the transport level, failed pages got a
// non-success answer from the server.
type Diagnostics struct {
	Missing []string
	Failed  []string
}

// Empty reports whether every page of the issue was fetched cleanly
func (d Diagnostics) Empty() bool {
	return len(d.Missing) == 0 && len(d.Failed) == 0
}

// Assembler fetches and concatenates the OCR text of an issue's pages
type Assembler struct {
	fetcher Fetcher
	workers int
	limiter ratelimit.Limiter
	logger  logger.Logger
}

// New creates an Assembler with a fixed page fetch concurrency
func New(fetcher Fetcher, workers int, limiter ratelimit.Limiter, log logger.Logger) *Assembler {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Assembler{
		fetcher: fetcher,
		workers: workers,
		limiter: limiter,
		logger:  log,
	}
}

// Assemble fetches the issue resource at issueURL, then every page's OCR
// text, and concatenates the texts in page order with no separators. A
// failure to fetch the issue resource itself is fatal; per-page failures
// are substituted with placeholders and returned in the diagnostics.
func (a *Assembler) Assemble(ctx context.Context, issueURL string) (string, Diagnostics, error) {
	var diags Diagnostics

	if a.limiter != nil && !a.limiter.Allow() {
		a.limiter.Wait()
	}

	issue, err := a.fetcher.FetchIssue(ctx, issueURL)
	if err != nil {
		return "", diags, fmt.Errorf("failed to fetch issue resource: %w", err)
	}

	if len(issue.Pages) == 0 {
		return "", diags, nil
	}

	// One slot per page, indexed by declared sequence position. Each
	// result owns exactly one slot, so the concatenation below is in page
	// order no matter which fetch finishes first.
	slots := make([]string, len(issue.Pages))

	pool := newWorkerPool(ctx, a.workers, a.fetcher, a.limiter, a.logger)
	pool.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			slots[result.Index] = result.Text
			if result.MissingURL != "" {
				diags.Missing = append(diags.Missing, result.MissingURL)
			}
			if result.FailedURL != "" {
				diags.Failed = append(diags.Failed, result.FailedURL)
			}
		}
	}()

	var submitErr error
	for i, page := range issue.Pages {
		if err := pool.Submit(pageJob{Index: i, URL: page.URL}); err != nil {
			submitErr = err
			break
		}
	}

	pool.Stop()
	wg.Wait()

	if submitErr != nil {
		return "", diags, submitErr
	}

	var sb strings.Builder
	for _, text := range slots {
		sb.WriteString(text)
	}

	a.logger.DebugWithFields("issue assembled", map[string]interface{}{
		"url":           issueURL,
		"pages":         len(issue.Pages),
		"missing_pages": len(diags.Missing),
		"failed_pages":  len(diags.Failed),
	})

	return sb.String(), diags, nil
}
