package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/domain"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/store"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
)

var ErrUnknownChange = errors.New("unknown change op")

// IndexService keeps the index in sync with article change events.
type IndexService struct {
	store    ArticleStore
	observer *scout.Observer
}

func NewIndexService(engine scout.Engine, store ArticleStore) *IndexService {
	return &IndexService{
		store:    store,
		observer: scout.NewObserver(engine),
	}
}

// HandleChange re-indexes a saved article or removes a deleted one. A saved
// article that no longer exists is removed as well.
func (s *IndexService) HandleChange(ctx context.Context, event *domain.ChangeEvent) error {
	l := log.Ctx(ctx)

	switch event.Op {
	case domain.ChangeSaved:
		article, err := s.store.Find(ctx, event.ID)
		if errors.Is(err, store.ErrNotFound) {
			l.Debug().Str("article_id", event.ID).Msg("saved article is gone, removing from index")
			return s.remove(ctx, event.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to load article %s: %w", event.ID, err)
		}
		if len(article.ToSearchDocument()) == 0 {
			// Unpublished articles must not stay searchable.
			return s.remove(ctx, event.ID)
		}
		return s.observer.Saved(ctx, article)

	case domain.ChangeDeleted:
		return s.remove(ctx, event.ID)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownChange, event.Op)
	}
}

func (s *IndexService) remove(ctx context.Context, id string) error {
	return s.observer.Deleted(ctx, scout.Ref{Category: s.store.SearchCategory(), Key: id})
}
