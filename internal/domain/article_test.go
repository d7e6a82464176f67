package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArticleModel_ToSearchDocument(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		model ArticleModel
		want  map[string]any
	}{
		{
			name:  "draft is not indexed",
			model: ArticleModel{ID: "1", Status: string(ArticleStatusDraft), Title: "wip"},
			want:  nil,
		},
		{
			name: "published",
			model: ArticleModel{
				ID: "2", AuthorID: "u1", Title: "Hello", Body: "world",
				Status: string(ArticleStatusPublished), Tags: []string{"go"}, CreatedAt: created,
			},
			want: map[string]any{
				"id": "2", "author_id": "u1", "title": "Hello", "body": "world",
				"status": "published", "tags": []string{"go"}, "created_at": "2024-03-01T12:00:00Z",
			},
		},
		{
			name:  "archived without tags",
			model: ArticleModel{ID: "3", Status: string(ArticleStatusArchived), CreatedAt: created},
			want: map[string]any{
				"id": "3", "author_id": "", "title": "", "body": "",
				"status": "archived", "tags": []string{}, "created_at": "2024-03-01T12:00:00Z",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.model.ToSearchDocument())
		})
	}
}

func TestArticleModel_Identity(t *testing.T) {
	m := &ArticleModel{ID: "abc"}
	assert.Equal(t, "abc", m.PrimaryKey())
	assert.Equal(t, ArticleCategory, m.SearchCategory())
	assert.Equal(t, "articles", m.TableName())
}
