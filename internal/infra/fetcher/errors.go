// Package fetcher downloads article pages and extracts their main text.
package fetcher

import "errors"

var (
	// ErrInvalidURL indicates the URL is malformed or uses a scheme other than http/https.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP indicates the host resolves to a loopback, private or link-local address.
	ErrPrivateIP = errors.New("private IP address not allowed")

	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrTimeout indicates the page did not answer within the per-request timeout.
	ErrTimeout = errors.New("content fetch timeout")

	ErrBodyTooLarge = errors.New("response body too large")

	// ErrRateLimited indicates the site kept answering 429 after every retry.
	ErrRateLimited = errors.New("rate limited")

	// ErrExtractionFailed indicates the page was fetched but no text could be extracted.
	ErrExtractionFailed = errors.New("content extraction failed")
)
