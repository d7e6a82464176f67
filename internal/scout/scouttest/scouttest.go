// Package scouttest provides test doubles for code built on the scout package.
package scouttest

import (
	"context"
	"sort"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
)

// MockEngine is a testify mock of scout.Engine.
type MockEngine struct {
	mock.Mock
}

var _ scout.Engine = (*MockEngine)(nil)

func (m *MockEngine) Update(ctx context.Context, models []scout.Searchable) error {
	args := m.Called(ctx, models)
	return args.Error(0)
}

func (m *MockEngine) Delete(ctx context.Context, models []scout.Searchable) error {
	args := m.Called(ctx, models)
	return args.Error(0)
}

func (m *MockEngine) Search(ctx context.Context, b *scout.Builder) (*scout.Results, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scout.Results), args.Error(1)
}

func (m *MockEngine) Paginate(ctx context.Context, b *scout.Builder, perPage, page int) (*scout.Results, error) {
	args := m.Called(ctx, b, perPage, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scout.Results), args.Error(1)
}

func (m *MockEngine) Map(ctx context.Context, results *scout.Results, model scout.Model) ([]scout.Searchable, error) {
	args := m.Called(ctx, results, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scout.Searchable), args.Error(1)
}

// MapIDs and GetTotalCount read the results directly; they are pure.
func (m *MockEngine) MapIDs(results *scout.Results) []string {
	ids := make([]string, 0, len(results.Hits))
	for _, h := range results.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func (m *MockEngine) GetTotalCount(results *scout.Results) int64 {
	return results.Total
}

// Record is an in-memory searchable record.
type Record struct {
	Category string
	Key      string
	Doc      map[string]any
}

func (r Record) ToSearchDocument() map[string]any { return r.Doc }
func (r Record) SearchCategory() string           { return r.Category }
func (r Record) PrimaryKey() string               { return r.Key }

// Store is an in-memory scout.Model and scout.Chunker.
type Store struct {
	mu       sync.Mutex
	category string
	records  map[string]scout.Searchable
	Err      error
}

// NewStore creates a store holding records.
func NewStore(category string, records ...scout.Searchable) *Store {
	s := &Store{category: category, records: make(map[string]scout.Searchable)}
	for _, r := range records {
		s.records[r.PrimaryKey()] = r
	}
	return s
}

func (s *Store) SearchCategory() string { return s.category }

func (s *Store) FindByKeys(_ context.Context, keys []string) ([]scout.Searchable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]scout.Searchable, 0, len(keys))
	for _, k := range keys {
		if r, ok := s.records[k]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Chunk walks records ordered by key.
func (s *Store) Chunk(ctx context.Context, size int, fn func(ctx context.Context, records []scout.Searchable) error) error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	all := make([]scout.Searchable, 0, len(keys))
	for _, k := range keys {
		all = append(all, s.records[k])
	}
	err := s.Err
	s.mu.Unlock()

	if err != nil {
		return err
	}
	for start := 0; start < len(all); start += size {
		end := min(start+size, len(all))
		if err := fn(ctx, all[start:end]); err != nil {
			return err
		}
	}
	return nil
}
