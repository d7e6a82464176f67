package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/domain"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	maxIDs         = 1000
)

type searchServiceImpl struct {
	engine    scout.Engine
	store     ArticleStore
	observer  *scout.Observer
	chunkSize int
}

// NewSearchService creates a search service over engine and store. chunkSize
// bounds the batch size of Import and Flush.
func NewSearchService(engine scout.Engine, store ArticleStore, chunkSize int) SearchService {
	return &searchServiceImpl{
		engine:    engine,
		store:     store,
		observer:  scout.NewObserver(engine),
		chunkSize: chunkSize,
	}
}

func (s *searchServiceImpl) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	s.normalizeRequest(req)

	b := scout.NewBuilder(s.engine, s.store, req.Query)
	fields := make([]string, 0, len(req.Filters))
	for field := range req.Filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		b.Where(field, req.Filters[field])
	}

	page, err := b.Paginate(ctx, req.PerPage, req.Page)
	if err != nil {
		return nil, err
	}

	items := make([]*domain.Article, 0, len(page.Items))
	for _, item := range page.Items {
		article, ok := item.(*domain.ArticleModel)
		if !ok {
			return nil, fmt.Errorf("unexpected record type %T", item)
		}
		items = append(items, article.ToDomain())
	}

	l := log.Ctx(ctx)
	l.Debug().
		Str(log.FieldQuery, req.Query).
		Int64("total", page.Total).
		Int(log.FieldCount, len(items)).
		Msg("article search")

	return &domain.SearchResponse{
		Items:       items,
		Total:       page.Total,
		PerPage:     page.PerPage,
		CurrentPage: page.CurrentPage,
		LastPage:    page.LastPage,
	}, nil
}

func (s *searchServiceImpl) SearchIDs(ctx context.Context, req *domain.IDsRequest) (*domain.IDsResponse, error) {
	if req.Limit < 0 {
		req.Limit = 0
	}
	if req.Limit > maxIDs {
		req.Limit = maxIDs
	}

	res, err := scout.NewBuilder(s.engine, s.store, req.Query).Take(req.Limit).Raw(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.IDsResponse{
		IDs:   s.engine.MapIDs(res),
		Total: s.engine.GetTotalCount(res),
	}, nil
}

func (s *searchServiceImpl) Import(ctx context.Context) (*domain.IndexOperation, error) {
	n, err := s.observer.Import(ctx, s.store, s.chunkSize)
	return &domain.IndexOperation{Category: s.store.SearchCategory(), Records: n}, err
}

func (s *searchServiceImpl) Flush(ctx context.Context) (*domain.IndexOperation, error) {
	n, err := s.observer.Flush(ctx, s.store, s.chunkSize)
	return &domain.IndexOperation{Category: s.store.SearchCategory(), Records: n}, err
}

func (s *searchServiceImpl) normalizeRequest(req *domain.SearchRequest) {
	if req.PerPage <= 0 {
		req.PerPage = defaultPerPage
	}
	if req.PerPage > maxPerPage {
		req.PerPage = maxPerPage
	}
	if req.Page < 1 {
		req.Page = 1
	}
}
