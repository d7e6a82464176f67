// Package scout is the full-text-search abstraction that application code talks to.
// Concrete drivers implement Engine and are registered with a Manager by name.
package scout

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrDriverNotFound = errors.New("search driver not registered")
	ErrInvalidPerPage = errors.New("per page must be at least 1")
)

// Searchable is implemented by every model that can be written to a search index.
type Searchable interface {
	// ToSearchDocument returns the indexed representation. An empty map means
	// the record is not indexed.
	ToSearchDocument() map[string]any
	SearchCategory() string
	PrimaryKey() string
}

// Model describes a searchable model type and how to load its persisted records.
type Model interface {
	SearchCategory() string
	// FindByKeys loads the persisted records for keys in a single lookup.
	// Order of the returned slice is not significant.
	FindByKeys(ctx context.Context, keys []string) ([]Searchable, error)
}

// Chunker iterates over every persisted record of a model in fixed-size chunks.
type Chunker interface {
	Chunk(ctx context.Context, size int, fn func(ctx context.Context, records []Searchable) error) error
}

// Engine is the capability set a search driver provides.
type Engine interface {
	Update(ctx context.Context, models []Searchable) error
	Delete(ctx context.Context, models []Searchable) error
	Search(ctx context.Context, b *Builder) (*Results, error)
	Paginate(ctx context.Context, b *Builder, perPage, page int) (*Results, error)
	Map(ctx context.Context, results *Results, model Model) ([]Searchable, error)
	MapIDs(results *Results) []string
	GetTotalCount(results *Results) int64
}

// Hit is one matched document of a search response.
type Hit struct {
	ID     string          `json:"id"`
	Source json.RawMessage `json:"source,omitempty"`
}

// Results is an engine search response.
type Results struct {
	Total int64 `json:"total"`
	Hits  []Hit `json:"hits"`
	// Pages is only set by Paginate.
	Pages int `json:"pages,omitempty"`
	// Raw is the response body as returned by the engine.
	Raw json.RawMessage `json:"raw,omitempty"`
}

// SearchParams is the request an engine assembled for a search, handed to a
// SearchFunc in place of the engine issuing it.
type SearchParams struct {
	Index string
	Type  string
	Body  map[string]any
	Size  *int
	From  *int
}

// SearchFunc replaces the engine's default request path. client is the
// driver's underlying client.
type SearchFunc func(ctx context.Context, client any, params SearchParams) (*Results, error)

// Ref identifies an indexed record without loading it. It has no document
// and is only useful for deletes.
type Ref struct {
	Category string
	Key      string
}

func (r Ref) ToSearchDocument() map[string]any { return nil }
func (r Ref) SearchCategory() string           { return r.Category }
func (r Ref) PrimaryKey() string               { return r.Key }
