// Package http provides the url source strategy. It fetches markdown over
// plain HTTP GET using the standard library client; no JavaScript rendering,
// no custom transport.
package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/AustinOrphan/docview"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Source implements docview.Source at compile time.
var _ docview.Source = (*Source)(nil)

// Source retrieves markdown from URLs.
type Source struct {
	client  *http.Client
	timeout time.Duration
	baseURL string
	headers map[string]string
}

// Option configures a Source.
type Option func(*Source)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		s.timeout = d
	}
}

// WithBaseURL sets a base URL that relative document locators are resolved
// against. Absolute locators are used as-is.
func WithBaseURL(base string) Option {
	return func(s *Source) {
		s.baseURL = base
	}
}

// WithHeaders sets headers forwarded on every request.
func WithHeaders(headers map[string]string) Option {
	return func(s *Source) {
		s.headers = headers
	}
}

// NewSource creates a new HTTP-based Source.
func NewSource(opts ...Option) *Source {
	s := &Source{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
	}

	return s
}

// FetchRaw retrieves the markdown at the document's URL.
func (s *Source) FetchRaw(ctx context.Context, doc *docview.Document) (*docview.SourceResult, error) {
	target, err := s.resolve(doc.URL)
	if err != nil {
		return nil, docview.WrapErrorf(err, docview.EINVALID, "document %q has an invalid URL", doc.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, docview.WrapErrorf(err, docview.EINVALID, "building request for document %q", doc.ID)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		// Timeouts and transport errors are transient from the loader's
		// point of view.
		return nil, docview.WrapErrorf(err, docview.EUNAVAILABLE, "fetching %s", target)
	}
	defer resp.Body.Close()

	if err := statusError(resp, target); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, docview.WrapErrorf(err, docview.EUNAVAILABLE, "reading response from %s", target)
	}

	return &docview.SourceResult{
		Content: string(body),
		ETag:    resp.Header.Get("ETag"),
	}, nil
}

// resolve joins a relative locator with the configured base URL.
func (s *Source) resolve(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", err
	}
	if u.IsAbs() || s.baseURL == "" {
		return locator, nil
	}
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}

// statusError maps non-2xx responses to application error codes.
func statusError(resp *http.Response, target string) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return docview.Errorf(docview.ENOTFOUND, "%s not found", target)
	case resp.StatusCode == http.StatusForbidden:
		return docview.Errorf(docview.EFORBIDDEN, "access to %s forbidden", target)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &docview.Error{
			Code:       docview.ERATELIMIT,
			Message:    "rate limited by " + target,
			RetryAfter: retryAfter(resp),
		}
	default:
		return docview.Errorf(docview.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, target)
	}
}

// retryAfter parses the Retry-After header, seconds form only.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
