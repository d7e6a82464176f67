package service

import (
	"context"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/domain"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
)

// SearchService defines the interface for article search and index maintenance.
type SearchService interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)
	SearchIDs(ctx context.Context, req *domain.IDsRequest) (*domain.IDsResponse, error)
	// Import and Flush return the operation also on failure, counting the
	// records sent before it.
	Import(ctx context.Context) (*domain.IndexOperation, error)
	Flush(ctx context.Context) (*domain.IndexOperation, error)
}

// ArticleStore is the primary store of articles.
type ArticleStore interface {
	scout.Model
	scout.Chunker
	Find(ctx context.Context, id string) (*domain.ArticleModel, error)
}
