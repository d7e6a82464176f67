package elastic

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
)

// Fuzziness is the edit distance allowed for free-text terms.
const Fuzziness = 1

func (e *Engine) searchParams(b *scout.Builder, size int, from *int) scout.SearchParams {
	category := b.Model.SearchCategory()

	params := scout.SearchParams{
		Index: e.index,
		Type:  category,
		Body:  buildQuery(b.Query, b.Wheres, e.typeFilter(category)...),
		Size:  &size,
		From:  from,
	}
	return params
}

func (e *Engine) typeFilter(category string) []map[string]any {
	if !e.mappingTypes {
		return nil
	}
	return []map[string]any{
		{"term": map[string]any{"_type": category}},
	}
}

// buildQuery requires every free-text term (with fuzziness) and every where
// clause to match.
func buildQuery(text string, wheres []scout.Where, extra ...map[string]any) map[string]any {
	filters := make([]map[string]any, 0, len(wheres)+len(extra))
	for _, w := range wheres {
		filters = append(filters, filterClause(w))
	}
	filters = append(filters, extra...)

	return map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"query_string": map[string]any{
						"query":            text,
						"default_operator": "AND",
						"fuzziness":        Fuzziness,
					},
				},
				"filter": filters,
			},
		},
	}
}

func filterClause(w scout.Where) map[string]any {
	return map[string]any{
		"bool": map[string]any{
			"must": map[string]any{
				"match": map[string]any{
					w.Field: map[string]any{
						"query":    w.Value,
						"operator": "AND",
					},
				},
			},
		},
	}
}

func encodeBody(body map[string]any) (io.Reader, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}
