// Package github provides the github source strategy, reading markdown from
// repositories via the GitHub contents API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/AustinOrphan/docview"
)

// defaultRequestRate is the proactive throttle applied before each API
// call, keeping well under GitHub's authenticated quota.
const defaultRequestRate = 1.2

// Ensure Source implements docview.Source at compile time.
var _ docview.Source = (*Source)(nil)

// Source retrieves repository files through the GitHub contents API.
type Source struct {
	client  *gh.Client
	limiter *rate.Limiter
	token   string
	baseURL *url.URL
}

// Option configures a Source.
type Option func(*Source)

// WithToken attaches a bearer token so private repositories are reachable
// and the higher authenticated rate limit applies.
func WithToken(token string) Option {
	return func(s *Source) {
		s.token = token
	}
}

// WithAPIBaseURL points the client at a different API endpoint. The URL
// must end with a trailing slash. Used for GitHub Enterprise and tests.
func WithAPIBaseURL(u *url.URL) Option {
	return func(s *Source) {
		s.baseURL = u
	}
}

// WithRequestRate overrides the proactive requests-per-second throttle.
func WithRequestRate(rps float64) Option {
	return func(s *Source) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewSource creates a GitHub-backed Source.
func NewSource(opts ...Option) *Source {
	s := &Source{
		limiter: rate.NewLimiter(rate.Limit(defaultRequestRate), 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	httpClient := http.DefaultClient
	if s.token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	s.client = gh.NewClient(httpClient)
	if s.baseURL != nil {
		s.client.BaseURL = s.baseURL
	}
	return s
}

// FetchRaw retrieves the file at the document's repository coordinates.
// The contents API returns base64-encoded payloads; the decoded markdown
// is returned with the blob SHA as the revision tag.
func (s *Source) FetchRaw(ctx context.Context, doc *docview.Document) (*docview.SourceResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, docview.WrapErrorf(err, docview.EUNAVAILABLE, "waiting for rate limiter")
	}

	opts := &gh.RepositoryContentGetOptions{Ref: doc.Ref}
	file, _, _, err := s.client.Repositories.GetContents(ctx, doc.Owner, doc.Repo, doc.FilePath, opts)
	if err != nil {
		return nil, mapError(err, doc)
	}
	if file == nil {
		return nil, docview.Errorf(docview.EINVALID, "%s in %s/%s is a directory, not a file",
			doc.FilePath, doc.Owner, doc.Repo)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, docview.WrapErrorf(err, docview.EINVALID, "decoding content of %s in %s/%s",
			doc.FilePath, doc.Owner, doc.Repo)
	}

	return &docview.SourceResult{
		Content: content,
		ETag:    file.GetSHA(),
	}, nil
}

// mapError translates go-github errors to application error codes. Rate
// limit responses carry a retry hint derived from the API's reset headers.
func mapError(err error, doc *docview.Document) error {
	where := fmt.Sprintf("%s/%s/%s", doc.Owner, doc.Repo, doc.FilePath)

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &docview.Error{
			Code:       docview.ERATELIMIT,
			Message:    fmt.Sprintf("github rate limit exceeded fetching %s", where),
			Err:        err,
			RetryAfter: max(time.Until(rateErr.Rate.Reset.Time), 0),
		}
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		var after time.Duration
		if abuseErr.RetryAfter != nil {
			after = *abuseErr.RetryAfter
		}
		return &docview.Error{
			Code:       docview.ERATELIMIT,
			Message:    fmt.Sprintf("github secondary rate limit fetching %s", where),
			Err:        err,
			RetryAfter: after,
		}
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return docview.Errorf(docview.ENOTFOUND, "%s not found", where)
		case http.StatusUnauthorized, http.StatusForbidden:
			return docview.Errorf(docview.EFORBIDDEN, "access to %s forbidden", where)
		}
	}

	return docview.WrapErrorf(err, docview.EUNAVAILABLE, "github request for %s failed", where)
}
