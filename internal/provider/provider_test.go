package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/elastic"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout/scouttest"
)

// fakeCluster answers _search and _bulk like a single-node cluster.
type fakeCluster struct {
	mu    sync.Mutex
	paths []string
	srv   *httptest.Server
}

func newFakeCluster(t *testing.T) *fakeCluster {
	t.Helper()
	fc := &fakeCluster{}
	fc.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		fc.mu.Lock()
		fc.paths = append(fc.paths, r.URL.Path)
		fc.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/_bulk":
			_ = json.NewEncoder(w).Encode(map[string]any{"errors": false, "items": []any{}})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"hits": map[string]any{
					"total": map[string]any{"value": 1},
					"hits":  []any{map[string]any{"_id": "42", "_source": map[string]any{}}},
				},
			})
		}
	}))
	t.Cleanup(fc.srv.Close)
	return fc
}

func (fc *fakeCluster) Paths() []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]string(nil), fc.paths...)
}

func TestRegister(t *testing.T) {
	fc := newFakeCluster(t)
	m := scout.NewManager(elastic.DriverName)

	client, err := Register(m, Config{Hosts: []string{fc.srv.URL}, Index: "articles"})
	require.NoError(t, err)
	require.NotNil(t, client)

	engine, err := m.Engine("")
	require.NoError(t, err)
	es, ok := engine.(*elastic.Engine)
	require.True(t, ok)
	assert.Equal(t, "articles", es.Index())

	store := scouttest.NewStore("articles")
	keys, err := scout.NewBuilder(engine, store, "hello").Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, keys)

	err = engine.Update(context.Background(), []scout.Searchable{
		scouttest.Record{Category: "articles", Key: "1", Doc: map[string]any{"title": "a"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/articles/_search", "/_bulk"}, fc.Paths())
}

func TestRegister_NewEngineEachResolution(t *testing.T) {
	fc := newFakeCluster(t)
	m := scout.NewManager(elastic.DriverName)
	_, err := Register(m, Config{Hosts: []string{fc.srv.URL}, Index: "articles"})
	require.NoError(t, err)

	a, err := m.Engine(elastic.DriverName)
	require.NoError(t, err)
	b, err := m.Engine(elastic.DriverName)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestRegister_Validation(t *testing.T) {
	m := scout.NewManager(elastic.DriverName)

	_, err := Register(m, Config{Hosts: []string{"http://localhost:9200"}})
	require.Error(t, err)

	_, err = Register(m, Config{Index: "articles"})
	require.Error(t, err)
	assert.Empty(t, m.Drivers())
}

func TestNewClient_SSL(t *testing.T) {
	t.Run("missing certificate file", func(t *testing.T) {
		_, err := NewClient(Config{
			Hosts: []string{"https://localhost:9200"},
			SSL:   SSLConfig{Enabled: true, Certificate: filepath.Join(t.TempDir(), "missing.crt")},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "certificate")
	})

	t.Run("skip verify", func(t *testing.T) {
		client, err := NewClient(Config{
			Hosts: []string{"https://localhost:9200"},
			SSL:   SSLConfig{Enabled: true, SkipVerify: true},
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("certificate ignored when ssl disabled", func(t *testing.T) {
		client, err := NewClient(Config{
			Hosts: []string{"http://localhost:9200"},
			SSL:   SSLConfig{Certificate: "/does/not/exist"},
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}
