package assembler

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrew-pyle/chronam/pkg/errors"
	"github.com/andrew-pyle/chronam/pkg/logger"
	"github.com/andrew-pyle/chronam/pkg/ratelimit"
)

// pageJob is a single page fetch task. Index is the page's position in the
// issue's declared sequence; the assembled text must follow that order, so
// the index travels with the job and its result.
type pageJob struct {
	Index int
	URL   string
}

// pageResult is the outcome of one page fetch. Exactly one of Text,
// MissingURL, or FailedURL carries the failure classification; Text always
// holds the page's contribution to the assembled issue (real OCR text or a
// placeholder).
type pageResult struct {
	Index      int
	Text       string
	MissingURL string
	FailedURL  string
}

// workerPool manages concurrent page fetches within one issue
type workerPool struct {
	numWorkers  int
	jobQueue    chan pageJob
	resultQueue chan pageResult
	wg          sync.WaitGroup
	ctx         context.Context
	fetcher     Fetcher
	limiter     ratelimit.Limiter
	logger      logger.Logger
}

// newWorkerPool creates a page fetch pool bound to the run's context
func newWorkerPool(ctx context.Context, numWorkers int, fetcher Fetcher, limiter ratelimit.Limiter, log logger.Logger) *workerPool {
	if log == nil {
		log = logger.GetLogger()
	}

	return &workerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan pageJob, numWorkers*2),
		resultQueue: make(chan pageResult, numWorkers),
		ctx:         ctx,
		fetcher:     fetcher,
		limiter:     limiter,
		logger:      log,
	}
}

// Start launches all workers
func (wp *workerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop signals that no more jobs will be submitted, waits for all workers to
// drain the queue, then closes the result queue.
func (wp *workerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// Submit adds a page fetch job to the queue
func (wp *workerPool) Submit(job pageJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("page fetch pool shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the result channel for consuming page fetch results
func (wp *workerPool) Results() <-chan pageResult {
	return wp.resultQueue
}

// worker is the main worker routine
func (wp *workerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		select {
		case <-wp.ctx.Done():
			return
		default:
		}

		result := wp.fetchPage(job, id)

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// fetchPage resolves one page: page detail resource first, then the OCR
// text it points at. Failures are recovered locally with the fixed
// placeholder strings; a page never aborts the issue.
func (wp *workerPool) fetchPage(job pageJob, workerID int) pageResult {
	result := pageResult{Index: job.Index}

	if wp.limiter != nil && !wp.limiter.Allow() {
		wp.limiter.Wait()
	}

	page, err := wp.fetcher.FetchPage(wp.ctx, job.URL)
	if err != nil {
		return wp.classifyFailure(job, workerID, err)
	}

	if wp.limiter != nil && !wp.limiter.Allow() {
		wp.limiter.Wait()
	}

	text, err := wp.fetcher.FetchText(wp.ctx, page.Text)
	if err != nil {
		return wp.classifyFailure(job, workerID, err)
	}

	result.Text = text

	wp.logger.DebugWithFields("page fetched", map[string]interface{}{
		"worker_id":  workerID,
		"page_index": job.Index,
		"url":        job.URL,
		"size":       len(text),
	})

	return result
}

// classifyFailure converts a page-level fetch error into its placeholder.
// Connection or timeout failures mean the page was likely never digitized;
// anything the server answered but could not serve is a failed page.
func (wp *workerPool) classifyFailure(job pageJob, workerID int, err error) pageResult {
	result := pageResult{Index: job.Index}

	if errors.IsType(err, errors.ErrorTypeNetwork) {
		result.Text = MissingPagePlaceholder
		result.MissingURL = job.URL
	} else {
		result.Text = FailedPagePlaceholder
		result.FailedURL = job.URL
	}

	wp.logger.WarnWithFields("page fetch failed, substituting placeholder", map[string]interface{}{
		"worker_id":  workerID,
		"page_index": job.Index,
		"url":        job.URL,
		"error":      err.Error(),
	})

	return result
}
