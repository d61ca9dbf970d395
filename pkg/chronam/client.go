package chronam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andrew-pyle/chronam/pkg/errors"
	"github.com/andrew-pyle/chronam/pkg/logger"
)

// Client fetches resources from the Chronicling America API. It performs no
// retries: a leaf-level failure is the caller's to recover, anything higher
// is fatal for the run.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	logger     logger.Logger
}

// NewClient creates a new archive API client with a uniform fetch timeout
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": "chronam-downloader/1.0",
			"Accept":     "application/json, text/plain",
		},
		logger: log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// get performs a GET request with the configured headers. A transport-level
// failure (connection, timeout, cancelled context) maps to a network error;
// the response is returned as-is for the caller to inspect.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewInvalidLocator(url, fmt.Sprintf("failed to create request: %v", err))
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    url,
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errors.NewNetwork(url, err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// getBody performs a GET request and returns the response body, mapping a
// non-success status to a response error.
func (c *Client) getBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnWithFields("non-success response", map[string]interface{}{
			"url":    url,
			"status": resp.StatusCode,
		})
		return nil, errors.NewResponse(url, fmt.Sprintf("server returned status %d", resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetwork(url, fmt.Errorf("failed to read response body: %w", err))
	}

	return body, nil
}

// getJSON performs a GET request and decodes the JSON response into target
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	body, err := c.getBody(ctx, url)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return errors.NewResponse(url, fmt.Sprintf("failed to parse JSON: %v", err), http.StatusOK)
	}

	return nil
}

// FetchNewspaper fetches a newspaper resource: title metadata plus the
// ordered list of issue references.
func (c *Client) FetchNewspaper(ctx context.Context, url string) (*Newspaper, error) {
	if err := ValidateURL(url); err != nil {
		return nil, err
	}

	var newspaper Newspaper
	if err := c.getJSON(ctx, url, &newspaper); err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("fetched newspaper resource", map[string]interface{}{
		"lccn":   newspaper.LCCN,
		"name":   newspaper.Name,
		"issues": len(newspaper.Issues),
	})

	return &newspaper, nil
}

// FetchIssue fetches an issue resource: the ordered page list
func (c *Client) FetchIssue(ctx context.Context, url string) (*Issue, error) {
	var issue Issue
	if err := c.getJSON(ctx, url, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// FetchPage fetches a page resource, which yields the OCR text locator
func (c *Client) FetchPage(ctx context.Context, url string) (*Page, error) {
	var page Page
	if err := c.getJSON(ctx, url, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchText fetches the raw OCR text body for a page. The body is plain
// text, not JSON.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	body, err := c.getBody(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
