package elastic

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureIndex_Exists(t *testing.T) {
	ft := newFakeTransport(func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, ``), nil
	})

	created, err := EnsureIndex(context.Background(), ft, "articles", map[string]any{"mappings": map[string]any{}})
	require.NoError(t, err)
	assert.False(t, created)

	reqs := ft.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodHead, reqs[0].Method)
	assert.Equal(t, "/articles", reqs[0].Path)
}

func TestEnsureIndex_Creates(t *testing.T) {
	ft := newFakeTransport(func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodHead {
			return jsonResponse(http.StatusNotFound, ``), nil
		}
		return jsonResponse(http.StatusOK, `{"acknowledged":true,"index":"articles"}`), nil
	})

	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{"title": map[string]any{"type": "text"}},
		},
	}
	created, err := EnsureIndex(context.Background(), ft, "articles", mapping)
	require.NoError(t, err)
	assert.True(t, created)

	reqs := ft.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Equal(t, "/articles", reqs[1].Path)
	assert.JSONEq(t, `{"mappings":{"properties":{"title":{"type":"text"}}}}`, string(reqs[1].Body))
}

func TestEnsureIndex_Errors(t *testing.T) {
	t.Run("unexpected status on check", func(t *testing.T) {
		ft := newFakeTransport(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusForbidden, ``), nil
		})
		_, err := EnsureIndex(context.Background(), ft, "articles", nil)
		require.Error(t, err)
		assert.Len(t, ft.Requests(), 1)
	})

	t.Run("create rejected", func(t *testing.T) {
		ft := newFakeTransport(func(req *http.Request) (*http.Response, error) {
			if req.Method == http.MethodHead {
				return jsonResponse(http.StatusNotFound, ``), nil
			}
			return jsonResponse(http.StatusBadRequest, `{"error":{"type":"resource_already_exists_exception"}}`), nil
		})
		_, err := EnsureIndex(context.Background(), ft, "articles", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "elasticsearch error")
	})
}
