package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/pevans/crimetalk/logging"
	"github.com/pevans/crimetalk/scraper"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// DefaultWarmConcurrency bounds how many sources are refreshed at once.
const DefaultWarmConcurrency = 4

// Warmer refreshes every source once at startup and then on a cron
// schedule, so readers find listings already loaded.
type Warmer struct {
	cron        *cron.Cron
	loader      *Loader
	sources     []scraper.ListingSource
	schedule    string
	concurrency int
	log         *logging.Logger
}

// NewWarmer constructs a warmer for the given sources. schedule accepts
// standard cron specs and descriptors such as "@every 1h".
func NewWarmer(loader *Loader, sources []scraper.ListingSource, schedule string, log *logging.Logger) *Warmer {
	if log == nil {
		log = logging.Discard()
	}
	return &Warmer{
		cron:        cron.New(),
		loader:      loader,
		sources:     sources,
		schedule:    schedule,
		concurrency: DefaultWarmConcurrency,
		log:         log.With("component", "warmer"),
	}
}

// Run refreshes all sources immediately and then according to the
// schedule. It blocks until ctx is done.
func (w *Warmer) Run(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.schedule, func() {
		w.RefreshAll(ctx)
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", w.schedule, err)
	}

	w.log.Info("refreshing all sources", "sources", len(w.sources))
	w.RefreshAll(ctx)

	w.log.Info("starting scheduler", "cron", w.schedule)
	w.cron.Start()

	<-ctx.Done()
	stopCtx := w.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	w.log.Info("scheduler stopped")
	return nil
}

// RefreshAll reloads every source and returns how many came back with
// articles.
func (w *Warmer) RefreshAll(ctx context.Context) int {
	loaded := make([]bool, len(w.sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for i, source := range w.sources {
		g.Go(func() error {
			result := w.loader.Listing(gctx, source, true)
			loaded[i] = len(result.Items) > 0
			if !loaded[i] {
				w.log.Warn("source refresh returned no articles", "source", source.Title, "url", source.URL)
			}
			return nil
		})
	}
	_ = g.Wait()

	count := 0
	for _, ok := range loaded {
		if ok {
			count++
		}
	}
	w.log.Debug("refresh finished", "loaded", count, "sources", len(w.sources))
	return count
}
