package elastic

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
)

var ErrMalformedResponse = errors.New("malformed search response")

// esResponse is the part of a _search response the engine reads.
type esResponse struct {
	Hits *struct {
		Total *hitsTotal `json:"total"`
		Hits  []struct {
			ID     string          `json:"_id"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// hitsTotal accepts both the pre-7.0 number and the {"value": n} object form.
type hitsTotal int64

func (t *hitsTotal) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*t = hitsTotal(n)
		return nil
	}

	var obj struct {
		Value *int64 `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil || obj.Value == nil {
		return fmt.Errorf("%w: unexpected hits.total %s", ErrMalformedResponse, data)
	}
	*t = hitsTotal(*obj.Value)
	return nil
}

// DecodeResults reads a _search response body. Search callbacks can use it
// to turn their own responses into scout results.
func DecodeResults(r io.Reader) (*scout.Results, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp esResponse
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Hits == nil {
		return nil, fmt.Errorf("%w: missing hits", ErrMalformedResponse)
	}
	if resp.Hits.Total == nil {
		return nil, fmt.Errorf("%w: missing hits.total", ErrMalformedResponse)
	}

	hits := make([]scout.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		hits = append(hits, scout.Hit{ID: h.ID, Source: h.Source})
	}

	return &scout.Results{
		Total: int64(*resp.Hits.Total),
		Hits:  hits,
		Raw:   raw,
	}, nil
}
