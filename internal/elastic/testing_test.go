package elastic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// fakeTransport records every request and answers with respond.
type fakeTransport struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(req *http.Request) (*http.Response, error)
}

func newFakeTransport(respond func(req *http.Request) (*http.Response, error)) *fakeTransport {
	if respond == nil {
		respond = func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"took":1,"errors":false,"items":[]}`), nil
		}
	}
	return &fakeTransport{respond: respond}
}

func (f *fakeTransport) Perform(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Body:   body,
	})
	f.mu.Unlock()

	return f.respond(req)
}

func (f *fakeTransport) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header: http.Header{
			"Content-Type":      []string{"application/json"},
			"X-Elastic-Product": []string{"Elasticsearch"},
		},
		Body: io.NopCloser(strings.NewReader(body)),
	}
}

func searchResponse(total int, ids ...string) string {
	hits := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		hits = append(hits, map[string]any{
			"_id":     id,
			"_source": map[string]any{"id": id},
		})
	}
	data, _ := json.Marshal(map[string]any{
		"took": 1,
		"hits": map[string]any{
			"total": map[string]any{"value": total, "relation": "eq"},
			"hits":  hits,
		},
	})
	return string(data)
}

// ndjson splits a bulk body into its decoded lines.
func ndjson(t *testing.T, body []byte) []map[string]any {
	t.Helper()
	var lines []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, sc.Err())
	return lines
}

type testRecord struct {
	id  string
	doc map[string]any
}

func (r testRecord) ToSearchDocument() map[string]any { return r.doc }
func (r testRecord) SearchCategory() string           { return "articles" }
func (r testRecord) PrimaryKey() string               { return r.id }

// testModel serves records from memory and counts lookups.
type testModel struct {
	records map[string]testRecord
	calls   int
	keys    [][]string
	err     error
}

func newTestModel(ids ...string) *testModel {
	m := &testModel{records: make(map[string]testRecord)}
	for _, id := range ids {
		m.records[id] = testRecord{id: id, doc: map[string]any{"id": id}}
	}
	return m
}

func (m *testModel) SearchCategory() string { return "articles" }

func (m *testModel) FindByKeys(_ context.Context, keys []string) ([]scout.Searchable, error) {
	m.calls++
	m.keys = append(m.keys, keys)
	if m.err != nil {
		return nil, m.err
	}
	// Reverse order, so callers cannot rely on the store preserving key order.
	var out []scout.Searchable
	for i := len(keys) - 1; i >= 0; i-- {
		if r, ok := m.records[keys[i]]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
