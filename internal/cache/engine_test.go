package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout/scouttest"
)

func newCachedEngine(t *testing.T) (*Engine, *scouttest.MockEngine, *fakeClient) {
	t.Helper()
	next := &scouttest.MockEngine{}
	client := newFakeClient()
	return NewEngine(next, NewResultCache(client, "search"), time.Minute), next, client
}

func TestEngine_SearchServesFromCache(t *testing.T) {
	ctx := context.Background()
	engine, next, client := newCachedEngine(t)
	store := scouttest.NewStore("articles")

	res := &scout.Results{Total: 1, Hits: []scout.Hit{{ID: "1"}}}
	next.On("Search", ctx, mock.Anything).Return(res, nil).Once()

	got, err := engine.Search(ctx, scout.NewBuilder(engine, store, "bug"))
	require.NoError(t, err)
	assert.Equal(t, res, got)

	require.Eventually(t, func() bool { return client.Len() == 1 }, time.Second, 10*time.Millisecond)

	got, err = engine.Search(ctx, scout.NewBuilder(engine, store, "bug"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, engine.MapIDs(got))
	next.AssertNumberOfCalls(t, "Search", 1)
}

func TestEngine_WriteInvalidates(t *testing.T) {
	ctx := context.Background()
	engine, next, client := newCachedEngine(t)
	store := scouttest.NewStore("articles")
	rec := scouttest.Record{Category: "articles", Key: "1", Doc: map[string]any{"title": "a"}}

	first := &scout.Results{Total: 0, Hits: []scout.Hit{}}
	second := &scout.Results{Total: 1, Hits: []scout.Hit{{ID: "1"}}}
	next.On("Search", ctx, mock.Anything).Return(first, nil).Once()
	next.On("Search", ctx, mock.Anything).Return(second, nil).Once()
	next.On("Update", ctx, []scout.Searchable{rec}).Return(nil).Once()

	got, err := engine.Search(ctx, scout.NewBuilder(engine, store, "a"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Total)
	require.Eventually(t, func() bool { return client.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, engine.Update(ctx, []scout.Searchable{rec}))

	got, err = engine.Search(ctx, scout.NewBuilder(engine, store, "a"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Total)
	next.AssertExpectations(t)
}

func TestEngine_FailedWriteKeepsGeneration(t *testing.T) {
	ctx := context.Background()
	engine, next, _ := newCachedEngine(t)
	rec := scouttest.Record{Category: "articles", Key: "1"}
	boom := errors.New("bulk failed")
	next.On("Delete", ctx, []scout.Searchable{rec}).Return(boom)

	require.ErrorIs(t, engine.Delete(ctx, []scout.Searchable{rec}), boom)

	gen, err := engine.cache.Generation(ctx, "articles")
	require.NoError(t, err)
	assert.Zero(t, gen)
}

func TestEngine_CallbackBypassesCache(t *testing.T) {
	ctx := context.Background()
	engine, next, client := newCachedEngine(t)
	b := scout.NewBuilder(engine, scouttest.NewStore("articles"), "q").
		WithCallback(func(context.Context, any, scout.SearchParams) (*scout.Results, error) {
			return &scout.Results{}, nil
		})

	next.On("Search", ctx, b).Return(&scout.Results{Total: 9}, nil).Twice()
	next.On("Paginate", ctx, b, 10, 1).Return(&scout.Results{Total: 9}, nil).Once()

	_, err := engine.Search(ctx, b)
	require.NoError(t, err)
	_, err = engine.Search(ctx, b)
	require.NoError(t, err)
	_, err = engine.Paginate(ctx, b, 10, 1)
	require.NoError(t, err)

	next.AssertExpectations(t)
	assert.Zero(t, client.Len())
}

func TestEngine_PaginateCachedPerPage(t *testing.T) {
	ctx := context.Background()
	engine, next, client := newCachedEngine(t)
	store := scouttest.NewStore("articles")

	next.On("Paginate", ctx, mock.Anything, 10, 1).Return(&scout.Results{Total: 25, Pages: 3}, nil).Once()
	next.On("Paginate", ctx, mock.Anything, 10, 2).Return(&scout.Results{Total: 25, Pages: 3}, nil).Once()

	_, err := engine.Paginate(ctx, scout.NewBuilder(engine, store, "q"), 10, 1)
	require.NoError(t, err)
	_, err = engine.Paginate(ctx, scout.NewBuilder(engine, store, "q"), 10, 2)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return client.Len() == 2 }, time.Second, 10*time.Millisecond)

	got, err := engine.Paginate(ctx, scout.NewBuilder(engine, store, "q"), 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Pages)
	next.AssertExpectations(t)
}

func TestEngine_SearchError(t *testing.T) {
	ctx := context.Background()
	engine, next, client := newCachedEngine(t)
	boom := errors.New("cluster down")
	next.On("Search", ctx, mock.Anything).Return(nil, boom)

	_, err := engine.Search(ctx, scout.NewBuilder(engine, scouttest.NewStore("articles"), "q"))
	require.ErrorIs(t, err, boom)
	assert.Zero(t, client.Len())
}

func TestEngine_GenerationUnavailable(t *testing.T) {
	ctx := context.Background()
	engine, next, client := newCachedEngine(t)
	client.getErr = errors.New("redis down")
	next.On("Search", ctx, mock.Anything).Return(&scout.Results{Total: 1}, nil).Twice()

	for i := 0; i < 2; i++ {
		got, err := engine.Search(ctx, scout.NewBuilder(engine, scouttest.NewStore("articles"), "q"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.Total)
	}
	next.AssertExpectations(t)
}
