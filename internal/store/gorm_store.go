// Package store loads searchable records from the primary database.
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
)

var ErrNotFound = errors.New("record not found")

// Record is the constraint for models served by GormStore: a pointer to a
// GORM model that is also searchable.
type Record[M any] interface {
	*M
	scout.Searchable
}

// GormStore implements scout.Model and scout.Chunker for one GORM model.
type GormStore[M any, P Record[M]] struct {
	db        *gorm.DB
	keyColumn string
}

// Option configures a GormStore.
type Option func(*options)

type options struct {
	keyColumn string
}

// WithKeyColumn sets the column holding the primary key. Defaults to "id".
func WithKeyColumn(column string) Option {
	return func(o *options) {
		o.keyColumn = column
	}
}

// NewGormStore creates a store for model type M.
func NewGormStore[M any, P Record[M]](db *gorm.DB, opts ...Option) *GormStore[M, P] {
	o := options{keyColumn: "id"}
	for _, opt := range opts {
		opt(&o)
	}
	return &GormStore[M, P]{db: db, keyColumn: o.keyColumn}
}

func (s *GormStore[M, P]) SearchCategory() string {
	return P(new(M)).SearchCategory()
}

// FindByKeys loads every record whose key is in keys with one query.
func (s *GormStore[M, P]) FindByKeys(ctx context.Context, keys []string) ([]scout.Searchable, error) {
	if len(keys) == 0 {
		return []scout.Searchable{}, nil
	}

	var models []M
	if err := s.db.WithContext(ctx).Where(s.keyColumn+" IN ?", keys).Find(&models).Error; err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldCategory, s.SearchCategory()).Int(log.FieldCount, len(keys)).Msg("failed to load records by key")
		return nil, err
	}
	return toSearchable[M, P](models), nil
}

// Find loads one record.
func (s *GormStore[M, P]) Find(ctx context.Context, key string) (P, error) {
	var model M
	if err := s.db.WithContext(ctx).Where(s.keyColumn+" = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return P(&model), nil
}

// Chunk walks every record in primary key order. Records passed to fn are
// only valid until fn returns.
func (s *GormStore[M, P]) Chunk(ctx context.Context, size int, fn func(ctx context.Context, records []scout.Searchable) error) error {
	var batch []M
	result := s.db.WithContext(ctx).FindInBatches(&batch, size, func(tx *gorm.DB, _ int) error {
		return fn(ctx, toSearchable[M, P](batch))
	})
	return result.Error
}

func toSearchable[M any, P Record[M]](models []M) []scout.Searchable {
	out := make([]scout.Searchable, 0, len(models))
	for i := range models {
		out = append(out, P(&models[i]))
	}
	return out
}
