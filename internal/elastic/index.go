package elastic

import (
	"context"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// EnsureIndex creates index with mapping when it does not exist yet and
// reports whether it was created.
func EnsureIndex(ctx context.Context, client esapi.Transport, index string, mapping map[string]any) (bool, error) {
	res, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, client)
	if err != nil {
		return false, fmt.Errorf("failed to check index %s: %w", index, err)
	}
	if res.Body != nil {
		res.Body.Close()
	}

	switch res.StatusCode {
	case http.StatusOK:
		return false, nil
	case http.StatusNotFound:
	default:
		return false, fmt.Errorf("elasticsearch error: checking index %s returned %d", index, res.StatusCode)
	}

	if mapping == nil {
		mapping = map[string]any{}
	}
	body, err := encodeBody(mapping)
	if err != nil {
		return false, fmt.Errorf("failed to marshal mapping: %w", err)
	}

	res, err = esapi.IndicesCreateRequest{Index: index, Body: body}.Do(ctx, client)
	if err != nil {
		return false, fmt.Errorf("failed to create index %s: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return false, fmt.Errorf("elasticsearch error: %s", res.String())
	}
	return true, nil
}
