package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
)

var _ scout.Engine = (*Engine)(nil)

// Engine caches Search and Paginate results of the wrapped engine. Writes
// bump the category generation after they succeed, so a search issued after
// a write never sees an older result.
type Engine struct {
	next  scout.Engine
	cache *ResultCache
	ttl   time.Duration
	sf    singleflight.Group
}

func NewEngine(next scout.Engine, cache *ResultCache, ttl time.Duration) *Engine {
	return &Engine{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}
}

func (e *Engine) Update(ctx context.Context, models []scout.Searchable) error {
	if err := e.next.Update(ctx, models); err != nil {
		return err
	}
	e.invalidate(ctx, models)
	return nil
}

func (e *Engine) Delete(ctx context.Context, models []scout.Searchable) error {
	if err := e.next.Delete(ctx, models); err != nil {
		return err
	}
	e.invalidate(ctx, models)
	return nil
}

func (e *Engine) invalidate(ctx context.Context, models []scout.Searchable) {
	seen := make(map[string]struct{})
	for _, m := range models {
		category := m.SearchCategory()
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		if err := e.cache.Bump(ctx, category); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str(log.FieldCategory, category).Msg("cache invalidation failed")
		}
	}
}

// Search serves builders without a callback from the cache.
func (e *Engine) Search(ctx context.Context, b *scout.Builder) (*scout.Results, error) {
	if b.Callback != nil {
		return e.next.Search(ctx, b)
	}
	return e.cached(ctx, b, fingerprint("search", b, 0, 0), func() (*scout.Results, error) {
		return e.next.Search(ctx, b)
	})
}

func (e *Engine) Paginate(ctx context.Context, b *scout.Builder, perPage, page int) (*scout.Results, error) {
	if b.Callback != nil || perPage < 1 {
		return e.next.Paginate(ctx, b, perPage, page)
	}
	return e.cached(ctx, b, fingerprint("paginate", b, perPage, page), func() (*scout.Results, error) {
		return e.next.Paginate(ctx, b, perPage, page)
	})
}

func (e *Engine) cached(ctx context.Context, b *scout.Builder, fp string, load func() (*scout.Results, error)) (*scout.Results, error) {
	l := log.Ctx(ctx)
	category := b.Model.SearchCategory()

	gen, err := e.cache.Generation(ctx, category)
	if err != nil {
		// Without a generation a cached entry cannot be trusted.
		l.Warn().Err(err).Str(log.FieldCategory, category).Msg("cache generation unavailable")
		return load()
	}
	key := e.cache.BuildKey(category, gen, fp)

	result, err, _ := e.sf.Do(key, func() (any, error) {
		cached, err := e.cache.Get(ctx, key)
		if err == nil {
			l.Debug().Str("key", key).Msg("cache hit")
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			l.Warn().Err(err).Msg("cache get error")
		}

		res, err := load()
		if err != nil {
			return nil, err
		}
		e.asyncCacheSet(key, res)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*scout.Results), nil
}

func (e *Engine) asyncCacheSet(key string, res *scout.Results) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := e.cache.Set(ctx, key, res, e.ttl); err != nil {
			l := log.L()
			l.Warn().Err(err).Str("key", key).Msg("cache set error")
		}
	}()
}

func (e *Engine) Map(ctx context.Context, results *scout.Results, model scout.Model) ([]scout.Searchable, error) {
	return e.next.Map(ctx, results, model)
}

func (e *Engine) MapIDs(results *scout.Results) []string {
	return e.next.MapIDs(results)
}

func (e *Engine) GetTotalCount(results *scout.Results) int64 {
	return e.next.GetTotalCount(results)
}
