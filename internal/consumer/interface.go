package consumer

import (
	"context"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/domain"
)

// ChangeHandler applies an article change to the search index.
type ChangeHandler interface {
	HandleChange(ctx context.Context, event *domain.ChangeEvent) error
}

// ChangeConsumer feeds change events to a ChangeHandler until its context ends.
type ChangeConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
