package scout

import (
	"context"
	"fmt"
)

// Where is an exact-match filter on a document field.
type Where struct {
	Field string
	Value any
}

// Builder collects a search against one model and runs it on an engine.
type Builder struct {
	engine Engine

	Model    Model
	Query    string
	Wheres   []Where
	Limit    int
	Callback SearchFunc
}

// Paginator is one page of mapped search results.
type Paginator struct {
	Items       []Searchable `json:"items"`
	Total       int64        `json:"total"`
	PerPage     int          `json:"per_page"`
	CurrentPage int          `json:"current_page"`
	LastPage    int          `json:"last_page"`
}

// NewBuilder starts a search for query against model.
func NewBuilder(engine Engine, model Model, query string) *Builder {
	return &Builder{
		engine: engine,
		Model:  model,
		Query:  query,
	}
}

// Where adds an exact-match filter. Filters keep insertion order.
func (b *Builder) Where(field string, value any) *Builder {
	b.Wheres = append(b.Wheres, Where{Field: field, Value: value})
	return b
}

// Take caps the number of results. Zero means the engine default.
func (b *Builder) Take(limit int) *Builder {
	b.Limit = limit
	return b
}

// WithCallback makes the engine hand the assembled request to fn instead of
// issuing it.
func (b *Builder) WithCallback(fn SearchFunc) *Builder {
	b.Callback = fn
	return b
}

// Raw runs the search and returns the engine response untouched.
func (b *Builder) Raw(ctx context.Context) (*Results, error) {
	return b.engine.Search(ctx, b)
}

// Keys returns the matching primary keys in relevance order.
func (b *Builder) Keys(ctx context.Context) ([]string, error) {
	res, err := b.engine.Search(ctx, b)
	if err != nil {
		return nil, err
	}
	return b.engine.MapIDs(res), nil
}

// Get runs the search and loads the matching records from the primary store.
func (b *Builder) Get(ctx context.Context) ([]Searchable, error) {
	res, err := b.engine.Search(ctx, b)
	if err != nil {
		return nil, err
	}
	return b.engine.Map(ctx, res, b.Model)
}

// Paginate runs the search for a 1-based page and loads the matching records.
func (b *Builder) Paginate(ctx context.Context, perPage, page int) (*Paginator, error) {
	if perPage < 1 {
		return nil, fmt.Errorf("paginate: %w", ErrInvalidPerPage)
	}

	res, err := b.engine.Paginate(ctx, b, perPage, page)
	if err != nil {
		return nil, err
	}

	items, err := b.engine.Map(ctx, res, b.Model)
	if err != nil {
		return nil, err
	}

	return &Paginator{
		Items:       items,
		Total:       b.engine.GetTotalCount(res),
		PerPage:     perPage,
		CurrentPage: page,
		LastPage:    res.Pages,
	}, nil
}
