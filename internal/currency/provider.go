package currency

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Provider resolves the snapshot to convert with: a cached snapshot younger
// than the TTL, else a live fetch, else the last cached snapshot marked
// stale, else the static table marked stale.
type Provider struct {
	cache      Cache
	fetcher    Fetcher
	ttl        time.Duration
	maxRetries int
	baseDelay  time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

// NewProvider builds a provider. A nil fetcher never goes live.
func NewProvider(cache Cache, fetcher Fetcher, ttl time.Duration, log zerolog.Logger) *Provider {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Provider{
		cache:      cache,
		fetcher:    fetcher,
		ttl:        ttl,
		maxRetries: 2,
		baseDelay:  250 * time.Millisecond,
		now:        time.Now,
		log:        log,
	}
}

// Snapshot never fails; the worst case is the stale static table.
func (p *Provider) Snapshot(ctx context.Context) Snapshot {
	cached, haveCached, err := p.cache.Get(ctx, Base)
	if err != nil {
		p.log.Warn().Err(err).Msg("fx cache unavailable")
		haveCached = false
	}
	if haveCached && p.now().Sub(cached.FetchedAt) < p.ttl {
		cached.Source = SourceCache
		cached.Stale = false
		return cached
	}

	if p.fetcher != nil {
		live, err := p.fetchWithRetry(ctx)
		if err == nil {
			if err := p.cache.Put(ctx, live); err != nil {
				p.log.Warn().Err(err).Msg("store fx snapshot")
			}
			return live
		}
		p.log.Warn().Err(err).Msg("live fx fetch failed, falling back")
	}

	if haveCached {
		cached.Source = SourceCache
		cached.Stale = true
		return cached
	}
	s := Static()
	s.Stale = true
	return s
}

func (p *Provider) fetchWithRetry(ctx context.Context) (Snapshot, error) {
	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		s, err := p.fetcher.Fetch(ctx, Base)
		if err == nil {
			s.Source = SourceLive
			s.Stale = false
			return s, nil
		}
		lastErr = err
		if attempt == p.maxRetries {
			break
		}

		d := float64(p.baseDelay) * float64(int(1)<<attempt)
		wait := time.Duration(d + rand.Float64()*0.2*d)
		p.log.Debug().Err(err).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying fx fetch")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
	}
	return Snapshot{}, lastErr
}
