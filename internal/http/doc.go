// Package http provides an HTTP client configured for the catalog API.
//
// The Client in this package handles:
//   - Browser-like request headers
//   - JSON requests with a bounded timeout-retry policy
//   - File downloads streamed to disk with progress tracking
//
// # Retry Policy
//
// Only transport-level timeouts are retried (3 attempts, 2^attempt seconds
// apart). All other failures — DNS errors, refused connections, non-2xx
// statuses, malformed JSON — fail immediately. Both paths surface as errors
// wrapping ErrTransport so callers treat "no result" uniformly:
//
//	var resp searchResponse
//	if err := client.GetJSON(ctx, url, &resp); err != nil {
//	    // errors.Is(err, http.ErrTransport) is true for every failure kind
//	}
//
// # Downloads
//
//	written, err := client.DownloadFile(ctx, audioURL, "/tmp/src.m4a", nil)
//
// The byte count is diagnostic only.
package http
