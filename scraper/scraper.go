// Package scraper turns the site's listing and article pages into plain
// values. Every operation is best-effort: failures are logged and an empty
// slice is returned, never an error.
package scraper

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pevans/crimetalk/logging"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBaseURL is the site root that relative links are resolved
	// against.
	DefaultBaseURL = "http://crimetalk.org.uk/"
	// DefaultUserAgent identifies the reader to the site.
	DefaultUserAgent = "crimetalk/1.0 (article reader)"
	// DefaultSearchConcurrency bounds the number of sources fetched at once
	// by Search.
	DefaultSearchConcurrency = 4
)

// Scraper fetches and parses pages. It holds no mutable state and is safe
// for concurrent use.
type Scraper struct {
	client            *http.Client
	baseURL           string
	userAgent         string
	searchConcurrency int
	log               *logging.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithHTTPClient sets the client used for requests. Per-call timeouts are
// applied through the request context, so the client's own Timeout is best
// left at zero.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Scraper) {
		if client != nil {
			s.client = client
		}
	}
}

// WithBaseURL sets the URL relative links and image sources resolve
// against.
func WithBaseURL(base string) Option {
	return func(s *Scraper) {
		if base != "" {
			s.baseURL = base
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithSearchConcurrency sets how many sources Search fetches in parallel.
func WithSearchConcurrency(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.searchConcurrency = n
		}
	}
}

// WithLogger sets the logger failures are reported to.
func WithLogger(log *logging.Logger) Option {
	return func(s *Scraper) {
		if log != nil {
			s.log = log
		}
	}
}

// NewScraper creates a scraper with the given options applied over the
// defaults.
func NewScraper(opts ...Option) *Scraper {
	s := &Scraper{
		client:            &http.Client{},
		baseURL:           DefaultBaseURL,
		userAgent:         DefaultUserAgent,
		searchConcurrency: DefaultSearchConcurrency,
		log:               logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "scraper")
	return s
}

// BaseURL returns the URL relative links are resolved against.
func (s *Scraper) BaseURL() string {
	return s.baseURL
}

// listingForm disables the listing pagination so every row is returned in
// one page.
func listingForm() url.Values {
	return url.Values{"limit": {"0"}}
}

// listingRows fetches a listing page and extracts its rows without
// dropping the placeholder.
func (s *Scraper) listingRows(ctx context.Context, source ListingSource, timeout time.Duration) []ArticleSummary {
	if err := source.Validate(); err != nil {
		s.log.Error("invalid listing source", "title", source.Title, "url", source.URL, "error", err)
		return []ArticleSummary{}
	}

	doc, err := s.fetchDocument(ctx, http.MethodPost, source.URL, listingForm(), timeout)
	if err != nil {
		s.log.Error("listing fetch failed", "title", source.Title, "url", source.URL, "error", err)
		return []ArticleSummary{}
	}

	rows := ExtractListing(doc, source, s.baseURL)

	s.log.Debug("listing fetched", "title", source.Title, "rows", len(rows))
	return rows
}

// FetchListing returns the article summaries of a listing page in document
// order, without the header placeholder row. The page is requested with
// POST and limit=0.
func (s *Scraper) FetchListing(ctx context.Context, source ListingSource, timeout time.Duration) []ArticleSummary {
	return DropListingPlaceholder(s.listingRows(ctx, source, timeout))
}

// FetchArticleBody returns the paragraphs of an article page, without the
// rating placeholder block.
func (s *Scraper) FetchArticleBody(ctx context.Context, link string, timeout time.Duration) []ArticleBodyBlock {
	doc, err := s.fetchDocument(ctx, http.MethodGet, link, nil, timeout)
	if err != nil {
		s.log.Error("article fetch failed", "url", link, "error", err)
		return []ArticleBodyBlock{}
	}

	blocks := DropBodyPlaceholder(ExtractArticleBody(doc, s.baseURL))
	s.log.Debug("article fetched", "url", link, "blocks", len(blocks))
	return blocks
}

// Search fetches every source and keeps the rows whose title, date or
// author contains query, ignoring case. Results are ordered by source, then
// by document order within a source, regardless of which fetch finishes
// first.
func (s *Scraper) Search(ctx context.Context, sources []ListingSource, query string, timeout time.Duration) []ArticleSummary {
	perSource := make([][]ArticleSummary, len(sources))

	var g errgroup.Group
	g.SetLimit(s.searchConcurrency)

	for i, source := range sources {
		g.Go(func() error {
			perSource[i] = FilterSummaries(s.listingRows(ctx, source, timeout), query)
			return nil
		})
	}

	// Sub-fetches report their own failures; Wait never returns an error.
	_ = g.Wait()

	matched := []ArticleSummary{}
	for _, rows := range perSource {
		matched = append(matched, rows...)
	}

	s.log.Debug("search finished", "query", query, "sources", len(sources), "matches", len(matched))
	return DropListingPlaceholder(matched)
}
