// Package elastic implements the scout engine on top of go-elasticsearch.
package elastic

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
)

// DriverName is the name the engine registers under.
const DriverName = "elasticsearch"

// DefaultSize bounds searches that did not ask for a limit.
const DefaultSize = 10000

var _ scout.Engine = (*Engine)(nil)

// Engine is a scout engine writing to and searching a single Elasticsearch index.
type Engine struct {
	client       esapi.Transport
	index        string
	mappingTypes bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithMappingTypes sends each model's category as the document _type and
// restricts searches to it. Only clusters older than 8.0 accept this.
func WithMappingTypes() Option {
	return func(e *Engine) {
		e.mappingTypes = true
	}
}

// NewEngine creates an engine bound to index. client is normally an
// *elasticsearch.Client.
func NewEngine(client esapi.Transport, index string, opts ...Option) *Engine {
	e := &Engine{
		client: client,
		index:  index,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Index returns the index name the engine is bound to.
func (e *Engine) Index() string {
	return e.index
}

// Update indexes models in one bulk request. Models whose search document is
// empty are skipped.
func (e *Engine) Update(ctx context.Context, models []scout.Searchable) error {
	batch := newBulkBatch()
	for _, m := range models {
		doc := m.ToSearchDocument()
		if len(doc) == 0 {
			continue
		}
		if err := batch.add(actionIndex, e.meta(m), doc); err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", m.SearchCategory(), m.PrimaryKey(), err)
		}
	}
	return e.bulk(ctx, batch, actionIndex)
}

// Delete removes models from the index in one bulk request.
func (e *Engine) Delete(ctx context.Context, models []scout.Searchable) error {
	batch := newBulkBatch()
	for _, m := range models {
		if err := batch.add(actionDelete, e.meta(m), nil); err != nil {
			return fmt.Errorf("failed to encode %s %s: %w", m.SearchCategory(), m.PrimaryKey(), err)
		}
	}
	return e.bulk(ctx, batch, actionDelete)
}

func (e *Engine) meta(m scout.Searchable) bulkMeta {
	meta := bulkMeta{
		Index: e.index,
		ID:    m.PrimaryKey(),
	}
	if e.mappingTypes {
		meta.Type = m.SearchCategory()
	}
	return meta
}

func (e *Engine) bulk(ctx context.Context, batch *bulkBatch, action string) error {
	l := log.Ctx(ctx)
	if batch.len() == 0 {
		l.Debug().Str(log.FieldIndex, e.index).Str("action", action).Msg("bulk skipped, nothing to send")
		return nil
	}

	req := esapi.BulkRequest{
		Body:    batch.reader(),
		Refresh: "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to %s documents in %s: %w", action, e.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch error: %s", res.String())
	}

	l.Debug().
		Str(log.FieldIndex, e.index).
		Str("action", action).
		Int(log.FieldCount, batch.len()).
		Msg("bulk request sent")
	return nil
}

// Search runs the builder's query. Without a limit the size defaults to DefaultSize.
func (e *Engine) Search(ctx context.Context, b *scout.Builder) (*scout.Results, error) {
	size := b.Limit
	if size <= 0 {
		size = DefaultSize
	}
	return e.performSearch(ctx, b, e.searchParams(b, size, nil))
}

// Paginate runs the builder's query for a 1-based page and sets Results.Pages.
func (e *Engine) Paginate(ctx context.Context, b *scout.Builder, perPage, page int) (*scout.Results, error) {
	if perPage < 1 {
		return nil, fmt.Errorf("paginate %s: %w", e.index, scout.ErrInvalidPerPage)
	}

	from := page*perPage - perPage
	res, err := e.performSearch(ctx, b, e.searchParams(b, perPage, &from))
	if err != nil {
		return nil, err
	}
	if res != nil {
		res.Pages = pageCount(res.Total, perPage)
	}
	return res, nil
}

func pageCount(total int64, perPage int) int {
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func (e *Engine) performSearch(ctx context.Context, b *scout.Builder, params scout.SearchParams) (*scout.Results, error) {
	if b.Callback != nil {
		return b.Callback(ctx, e.client, params)
	}

	body, err := encodeBody(params.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{params.Index},
		Body:  body,
		Size:  params.Size,
		From:  params.From,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", params.Index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	results, err := DecodeResults(res.Body)
	if err != nil {
		return nil, err
	}

	l := log.Ctx(ctx)
	l.Debug().
		Str(log.FieldIndex, params.Index).
		Str(log.FieldQuery, b.Query).
		Int64("total", results.Total).
		Int(log.FieldCount, len(results.Hits)).
		Msg("search completed")
	return results, nil
}

// Map loads the records behind results from model's store, keeping hit order
// and dropping hits that no longer have a record.
func (e *Engine) Map(ctx context.Context, results *scout.Results, model scout.Model) ([]scout.Searchable, error) {
	if len(results.Hits) == 0 {
		return []scout.Searchable{}, nil
	}

	records, err := model.FindByKeys(ctx, e.MapIDs(results))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", model.SearchCategory(), err)
	}

	byKey := make(map[string]scout.Searchable, len(records))
	for _, r := range records {
		byKey[r.PrimaryKey()] = r
	}

	mapped := make([]scout.Searchable, 0, len(results.Hits))
	for _, hit := range results.Hits {
		if r, ok := byKey[hit.ID]; ok {
			mapped = append(mapped, r)
		}
	}
	return mapped, nil
}

// MapIDs returns the hit identifiers in engine order.
func (e *Engine) MapIDs(results *scout.Results) []string {
	ids := make([]string, 0, len(results.Hits))
	for _, hit := range results.Hits {
		ids = append(ids, hit.ID)
	}
	return ids
}

// GetTotalCount returns the engine-reported total, which may exceed len(Hits).
func (e *Engine) GetTotalCount(results *scout.Results) int64 {
	return results.Total
}
