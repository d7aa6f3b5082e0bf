package weather

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/harunnryd/tani/pkg/errorsx"
	"github.com/harunnryd/tani/pkg/resilience"
)

// Fetcher retrieves one live weather reading for a coordinate.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, lat, lon float64) (Snapshot, error)
}

// ProviderConfig tunes caching and the bounded retry loop.
type ProviderConfig struct {
	TTL         time.Duration // cache time-to-live, default 30m
	MaxAttempts int           // live fetch attempts, default 3
	Backoff     time.Duration // sleep between attempts, default 500ms
}

type cacheEntry struct {
	snapshot  *Snapshot
	fetchedAt time.Time
}

// Provider serves weather snapshots with a TTL cache in front of a Fetcher.
// A nil Fetcher means no weather API is configured; that is not an error,
// it selects the no-live-data fallback. Snapshot never fails.
type Provider struct {
	fetcher Fetcher
	retry   resilience.RetryPolicy
	ttl     time.Duration
	log     *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

func NewProvider(fetcher Fetcher, cfg ProviderConfig, logger *slog.Logger) *Provider {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		fetcher: fetcher,
		retry:   resilience.RetryPolicy{MaxRetries: cfg.MaxAttempts - 1, Backoff: cfg.Backoff},
		ttl:     cfg.TTL,
		log:     logger,
		cache:   make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Snapshot returns the cached reading for the rounded coordinates when it is
// still live, otherwise fetches with bounded retries. On config absence or
// exhausted retries it degrades to a deterministic fallback snapshot whose
// summary names the cause. Cached hits return the identical *Snapshot.
func (p *Provider) Snapshot(ctx context.Context, lat, lon float64) *Snapshot {
	key := cacheKey(lat, lon)
	if snap := p.lookup(key); snap != nil {
		return snap
	}

	if p.fetcher == nil {
		return &Snapshot{Summary: noConfigSummary}
	}

	var fetched Snapshot
	err := p.retry.DoWithContext(ctx, func() error {
		snap, err := p.fetcher.Fetch(ctx, lat, lon)
		if err != nil {
			p.log.Debug("weather fetch attempt failed",
				slog.String("provider", p.fetcher.Name()),
				slog.String("error", err.Error()))
			return err
		}
		fetched = snap
		return nil
	})
	if err != nil {
		err = errorsx.Wrap(err, errorsx.ReasonWeatherFetch)
		p.log.Warn("weather retrieval exhausted retries, using fallback",
			slog.String("provider", p.fetcher.Name()),
			slog.String("reason", string(errorsx.Reason(err))),
			slog.String("error", err.Error()))
		return &Snapshot{Summary: unavailableSummary}
	}

	fetched.Summary = Summarize(fetched)
	snap := &fetched
	p.store(key, snap)
	return snap
}

// ClearCache drops all cached snapshots. Intended for test isolation.
func (p *Provider) ClearCache() {
	p.mu.Lock()
	p.cache = make(map[string]cacheEntry)
	p.mu.Unlock()
}

func (p *Provider) lookup(key string) *Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.cache[key]
	if !ok {
		return nil
	}
	if p.now().Sub(entry.fetchedAt) >= p.ttl {
		// expired entries are evicted lazily on the next lookup
		delete(p.cache, key)
		return nil
	}
	return entry.snapshot
}

func (p *Provider) store(key string, snap *Snapshot) {
	p.mu.Lock()
	p.cache[key] = cacheEntry{snapshot: snap, fetchedAt: p.now()}
	p.mu.Unlock()
}

// cacheKey rounds the coordinate pair to two decimals (~1km) so nearby
// requests share one reading.
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f:%.2f", lat, lon)
}
