// Package loader keeps the last listing of each source at hand and reloads
// it from the network only when asked to.
package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pevans/crimetalk/cache"
	"github.com/pevans/crimetalk/logging"
	"github.com/pevans/crimetalk/scraper"
)

// ListingFetcher fetches one listing page. *scraper.Scraper satisfies it.
type ListingFetcher interface {
	FetchListing(ctx context.Context, source scraper.ListingSource, timeout time.Duration) []scraper.ArticleSummary
}

// SettingsProvider supplies the network timeout at call time.
// *config.SettingsStore satisfies it.
type SettingsProvider interface {
	Timeout() time.Duration
}

// SnapshotStore persists listings between runs. *cache.SnapshotStore
// satisfies it.
type SnapshotStore interface {
	Save(sourceURL string, items []scraper.ArticleSummary) (*cache.Snapshot, error)
	Get(sourceURL string) (*cache.Snapshot, error)
}

// Result is a listing together with where it came from.
type Result struct {
	Items     []scraper.ArticleSummary `json:"items"`
	FetchedAt time.Time                `json:"fetched_at"`
	Cached    bool                     `json:"cached"`
}

// Loader delivers the remembered listing of a source when there is one and
// fetches it otherwise. It is safe for concurrent use.
type Loader struct {
	fetcher  ListingFetcher
	settings SettingsProvider
	store    SnapshotStore
	log      *logging.Logger
	now      func() time.Time

	mu         sync.Mutex
	locks      map[string]*sync.Mutex
	remembered map[string]Result
}

// New creates a loader. store may be nil, in which case listings are only
// remembered in memory.
func New(fetcher ListingFetcher, settings SettingsProvider, store SnapshotStore, log *logging.Logger) *Loader {
	if log == nil {
		log = logging.Discard()
	}
	return &Loader{
		fetcher:    fetcher,
		settings:   settings,
		store:      store,
		log:        log.With("component", "loader"),
		now:        time.Now,
		locks:      make(map[string]*sync.Mutex),
		remembered: make(map[string]Result),
	}
}

// sourceLock returns the mutex serializing loads of one source.
func (l *Loader) sourceLock(url string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[url]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[url] = lock
	}
	return lock
}

func (l *Loader) lookup(url string) (Result, bool) {
	l.mu.Lock()
	result, ok := l.remembered[url]
	l.mu.Unlock()
	if ok {
		return result, true
	}

	if l.store == nil {
		return Result{}, false
	}
	snapshot, err := l.store.Get(url)
	if err != nil {
		if !errors.Is(err, cache.ErrSnapshotNotFound) {
			l.log.Warn("snapshot read failed", "url", url, "error", err)
		}
		return Result{}, false
	}

	result = Result{Items: snapshot.Items, FetchedAt: snapshot.FetchedAt, Cached: true}
	l.remember(url, result)
	return result, true
}

func (l *Loader) remember(url string, result Result) {
	l.mu.Lock()
	l.remembered[url] = result
	l.mu.Unlock()
}

// Listing returns the listing for source. Unless refresh is set, a
// remembered listing is returned without touching the network. An empty
// fetch is returned to the caller but never replaces what is remembered.
func (l *Loader) Listing(ctx context.Context, source scraper.ListingSource, refresh bool) Result {
	lock := l.sourceLock(source.URL)
	lock.Lock()
	defer lock.Unlock()

	if !refresh {
		if result, ok := l.lookup(source.URL); ok {
			result.Cached = true
			return result
		}
	}

	items := l.fetcher.FetchListing(ctx, source, l.timeout())
	result := Result{Items: items, FetchedAt: l.now().Truncate(0)}
	if len(items) == 0 {
		return result
	}

	if l.store != nil {
		snapshot, err := l.store.Save(source.URL, items)
		if err != nil {
			l.log.Error("snapshot save failed", "url", source.URL, "error", err)
		} else {
			result.FetchedAt = snapshot.FetchedAt
		}
	}
	l.remember(source.URL, result)

	return result
}

// Forget drops the in-memory listing of a source. Persisted snapshots are
// kept.
func (l *Loader) Forget(sourceURL string) {
	l.mu.Lock()
	delete(l.remembered, sourceURL)
	l.mu.Unlock()
}

func (l *Loader) timeout() time.Duration {
	if l.settings == nil {
		return 10 * time.Second
	}
	return l.settings.Timeout()
}
