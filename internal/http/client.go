package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"os"
	"time"
)

// ErrTransport is the uniform failure for any unsuccessful catalog request:
// connection errors, non-2xx statuses, malformed payloads, and timeouts that
// exhausted their retries. Callers must treat all of these as "no result"
// and cannot distinguish an exhausted retry from an immediate failure.
var ErrTransport = errors.New("transport error")

// maxAttempts bounds timeout retries for JSON requests.
const maxAttempts = 3

// Client wraps HTTP operations with catalog-specific configuration.
//
// Client provides:
//   - Browser-like request headers (the catalog rejects default Go agents)
//   - Timeout handling with bounded retry for JSON requests
//   - File download streamed to disk with progress tracking
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client configured for the catalog API.
//
// The client is configured with a 60 second timeout, which also bounds the
// body copy of streaming downloads.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// GetJSON performs a GET request and decodes the JSON response into v.
//
// Retry policy: transport-level timeouts are retried up to 3 attempts with
// exponential backoff (2^attempt seconds) between attempts. Any other
// failure — DNS, connection refused, non-2xx status, malformed JSON — is
// treated as not transient and fails immediately. Every failure path
// returns an error wrapping ErrTransport.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := c.backoff(ctx, attempt-1); err != nil {
				return fmt.Errorf("%w: %v", ErrTransport, err)
			}
		}

		body, err := c.Get(ctx, url)
		if err == nil {
			if err := json.Unmarshal(body, v); err != nil {
				return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
			}
			return nil
		}

		if !isTimeout(err) {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		lastErr = err
	}

	return fmt.Errorf("%w: timed out after %d attempts: %v", ErrTransport, maxAttempts, lastErr)
}

// Get performs a GET request and returns the response body as bytes.
//
// The request carries the configured User-Agent header. A non-200 status is
// an error. Use this for small payloads only; large files should go through
// DownloadFile.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// DownloadFile downloads a file to the specified path, streaming the body
// directly to disk without buffering the whole payload in memory.
//
// The destination file is created, or truncated if it exists. The returned
// byte count is for logging and diagnostics only, not a correctness signal.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - onProgress: Optional callback called with (bytesWritten, totalBytes);
//     pass nil to disable progress tracking
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: HTTP %d: %s", ErrTransport, resp.StatusCode, resp.Status)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var writer io.Writer = file
	pw := &ProgressWriter{
		Writer:   file,
		Total:    resp.ContentLength,
		OnUpdate: onProgress,
	}
	if onProgress != nil {
		writer = pw
	}

	written, err := io.Copy(writer, resp.Body)
	if err != nil {
		return written, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return written, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

// backoff sleeps 2^attempt seconds, or returns early on context cancellation.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	delay := time.Duration(math.Pow(2, float64(attempt))) * time.Second
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

// isTimeout reports whether err is a transport-level timeout, the only
// failure class the retry policy treats as transient.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
