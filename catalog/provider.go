// Package catalog supplies the items games are dealt from.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"timeline-lab/contract"
	"timeline-lab/domain"
	"timeline-lab/errors"

	"github.com/samber/lo"
	"github.com/samber/lo/mutable"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL    = time.Hour
	DefaultPacing = 100 * time.Millisecond
	refreshKey    = "catalog"
)

// Provider caches the item set, enriched with images when a resolver is set.
// Concurrent loads collapse into one.
type Provider struct {
	log      *slog.Logger
	source   []domain.Item
	resolver contract.ImageResolver
	ttl      time.Duration
	pacing   time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	items     []domain.Item
	fetchedAt time.Time
	group     singleflight.Group
}

type Option func(*Provider)

func WithImageResolver(resolver contract.ImageResolver) Option {
	return func(p *Provider) { p.resolver = resolver }
}

func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

// WithPacing sets the pause between two image lookups.
func WithPacing(pacing time.Duration) Option {
	return func(p *Provider) { p.pacing = pacing }
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithItems replaces the built-in board game list.
func WithItems(items []domain.Item) Option {
	return func(p *Provider) { p.source = items }
}

func NewProvider(log *slog.Logger, opts ...Option) *Provider {
	p := &Provider{
		log:    log,
		source: BoardGames(),
		ttl:    DefaultTTL,
		pacing: DefaultPacing,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchShuffledItems returns the whole cached set in a fresh random order.
func (p *Provider) FetchShuffledItems(ctx context.Context, minCount int) ([]domain.Item, error) {
	items, err := p.cached(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) < minCount {
		return nil, fmt.Errorf("%w: %d items, need %d", errors.ErrCatalogUnavailable, len(items), minCount)
	}
	shuffled := make([]domain.Item, len(items))
	copy(shuffled, items)
	mutable.Shuffle(shuffled)
	return shuffled, nil
}

// Warmup loads the cache ahead of the first game.
func (p *Provider) Warmup(ctx context.Context) {
	if _, err := p.cached(ctx); err != nil {
		p.log.Warn("Catalog warmup failed", "error", err)
	}
}

// Refresh reloads the cache even when it is still fresh.
func (p *Provider) Refresh(ctx context.Context) error {
	_, err := p.load(ctx)
	return err
}

func (p *Provider) cached(ctx context.Context) ([]domain.Item, error) {
	p.mu.RLock()
	items, fetchedAt := p.items, p.fetchedAt
	p.mu.RUnlock()

	if len(items) > 0 && p.now().Sub(fetchedAt) < p.ttl {
		return items, nil
	}
	return p.load(ctx)
}

func (p *Provider) load(ctx context.Context) ([]domain.Item, error) {
	v, err, shared := p.group.Do(refreshKey, func() (any, error) {
		items, err := p.enrich(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.items = items
		p.fetchedAt = p.now()
		p.mu.Unlock()

		withImages := lo.CountBy(items, func(item domain.Item) bool { return item.Image != "" })
		p.log.Info(fmt.Sprintf("Loaded images for %d/%d games", withImages, len(items)))
		return items, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCatalogUnavailable, err)
	}
	if shared {
		p.log.Debug("Catalog load shared between callers")
	}
	return v.([]domain.Item), nil
}

// enrich attaches an image to every item. A failed lookup leaves the item
// without image.
func (p *Provider) enrich(ctx context.Context) ([]domain.Item, error) {
	items := make([]domain.Item, len(p.source))
	copy(items, p.source)
	if p.resolver == nil {
		return items, nil
	}

	for i := range items {
		if i > 0 && p.pacing > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.pacing):
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		image, err := p.resolver.ResolveImage(ctx, items[i].ID)
		if err != nil {
			p.log.Warn("Image lookup failed", "item_id", items[i].ID, "name", items[i].Name, "error", err)
			continue
		}
		items[i].Image = image
	}
	return items, nil
}
