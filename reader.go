// Package crimetalk reads the CrimeTalk website: article listings of the
// library and press cuttings sections, article bodies and keyword search.
//
// The scraping itself lives in the scraper package. Reader ties it to the
// embedded catalog, the user's settings, the listing loader and a
// connectivity conn, and is what the CLI and the HTTP API talk to.
package crimetalk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pevans/crimetalk/catalog"
	"github.com/pevans/crimetalk/config"
	"github.com/pevans/crimetalk/loader"
	"github.com/pevans/crimetalk/logging"
	"github.com/pevans/crimetalk/scraper"
)

// Messages attached to empty results.
const (
	MessageNoInternet = "no internet connection"
	MessageNoArticles = "no articles found"
)

// ErrInvalidLink is returned when an article link is empty or not an
// absolute http(s) URL.
var ErrInvalidLink = errors.New("article link must be an absolute http(s) URL")

// SettingsSource supplies the user's settings. *config.SettingsStore
// satisfies it.
type SettingsSource interface {
	GetSettings() (*config.Settings, error)
}

// ListingResult is a listing or search result ready for display.
type ListingResult struct {
	Section   scraper.SectionKind      `json:"section"`
	Tab       string                   `json:"tab,omitempty"`
	Query     string                   `json:"query,omitempty"`
	Items     []scraper.ArticleSummary `json:"items"`
	FetchedAt *time.Time               `json:"fetched_at,omitempty"`
	Cached    bool                     `json:"cached"`
	Message   string                   `json:"message,omitempty"`
}

// ArticleView tells the caller how to show an article. When OpenInBrowser
// is set the article was not fetched and Blocks is empty.
type ArticleView struct {
	Link          string                     `json:"link"`
	OpenInBrowser bool                       `json:"open_in_browser"`
	Blocks        []scraper.ArticleBodyBlock `json:"blocks"`
	Message       string                     `json:"message,omitempty"`
}

// Reader is the entry point for reading the site.
type Reader struct {
	catalog  *catalog.Catalog
	settings SettingsSource
	scraper  *scraper.Scraper
	loader   *loader.Loader
	conn     Connectivity
	log      *logging.Logger
}

// NewReader wires a reader. conn may be nil, in which case empty results
// are always reported as having no articles.
func NewReader(
	cat *catalog.Catalog,
	settings SettingsSource,
	sc *scraper.Scraper,
	ld *loader.Loader,
	conn Connectivity,
	log *logging.Logger,
) *Reader {
	if log == nil {
		log = logging.Discard()
	}
	return &Reader{
		catalog:  cat,
		settings: settings,
		scraper:  sc,
		loader:   ld,
		conn:     conn,
		log:      log.With("component", "reader"),
	}
}

// Sections returns the catalog's sections.
func (r *Reader) Sections() []catalog.Section {
	return r.catalog.Sections
}

// Books returns the shop books.
func (r *Reader) Books() []catalog.Book {
	return r.catalog.Books
}

// currentSettings returns the stored settings, or the defaults when they
// cannot be read.
func (r *Reader) currentSettings() config.Settings {
	if r.settings == nil {
		return config.DefaultSettings()
	}
	settings, err := r.settings.GetSettings()
	if err != nil {
		r.log.Warn("settings read failed, using defaults", "error", err)
		return config.DefaultSettings()
	}
	return *settings
}

// emptyMessage explains an empty result.
func (r *Reader) emptyMessage(ctx context.Context) string {
	if r.conn != nil && !r.conn.HasInternet(ctx) {
		return MessageNoInternet
	}
	return MessageNoArticles
}

// ListTab returns the listing of one tab of a section. A remembered
// listing is returned unless refresh is set.
func (r *Reader) ListTab(ctx context.Context, kind scraper.SectionKind, tab string, refresh bool) (*ListingResult, error) {
	source, err := r.catalog.Source(kind, tab)
	if err != nil {
		return nil, err
	}

	loaded := r.loader.Listing(ctx, source, refresh)
	result := &ListingResult{
		Section: kind,
		Tab:     source.Title,
		Items:   loaded.Items,
		Cached:  loaded.Cached,
	}
	if !loaded.FetchedAt.IsZero() {
		fetchedAt := loaded.FetchedAt
		result.FetchedAt = &fetchedAt
	}
	if len(result.Items) == 0 {
		result.Message = r.emptyMessage(ctx)
	}

	return result, nil
}

// ListTabFeed returns the listing of one tab read from its RSS feed
// instead of the HTML page. Feed listings are not remembered.
func (r *Reader) ListTabFeed(ctx context.Context, kind scraper.SectionKind, tab string) (*ListingResult, error) {
	source, err := r.catalog.Source(kind, tab)
	if err != nil {
		return nil, err
	}

	items := r.scraper.FetchListingFeed(ctx, source, r.currentSettings().Timeout())
	result := &ListingResult{Section: kind, Tab: source.Title, Items: items}
	if len(items) == 0 {
		result.Message = r.emptyMessage(ctx)
	}

	return result, nil
}

// SearchSection searches every tab of a section for query.
func (r *Reader) SearchSection(ctx context.Context, kind scraper.SectionKind, query string) (*ListingResult, error) {
	section, err := r.catalog.Section(kind)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	items := r.scraper.Search(ctx, section.Sources, query, r.currentSettings().Timeout())
	result := &ListingResult{Section: kind, Query: query, Items: items}
	if len(items) == 0 {
		result.Message = r.emptyMessage(ctx)
	}

	return result, nil
}

// OpenArticle decides how to show the article at link. Press cuttings
// point at other sites and are always opened in the browser, as is every
// article when the user prefers the browser. Otherwise the body is
// fetched.
func (r *Reader) OpenArticle(ctx context.Context, kind scraper.SectionKind, link string) (*ArticleView, error) {
	link = strings.TrimSpace(link)
	if err := scraper.ValidatePageURL(link); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}

	settings := r.currentSettings()
	view := &ArticleView{Link: link, Blocks: []scraper.ArticleBodyBlock{}}
	if kind == scraper.SectionPressCuttings || settings.LoadInBrowser {
		view.OpenInBrowser = true
		return view, nil
	}

	view.Blocks = r.scraper.FetchArticleBody(ctx, link, settings.Timeout())
	if len(view.Blocks) == 0 {
		view.Message = r.emptyMessage(ctx)
	}

	return view, nil
}
