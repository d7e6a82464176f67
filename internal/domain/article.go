package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/database"
)

// ArticleCategory is the search category of articles.
const ArticleCategory = "articles"

type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusArchived  ArticleStatus = "archived"
)

// ArticleModel is the GORM model for the articles table.
type ArticleModel struct {
	ID        string               `gorm:"type:varchar(36);primaryKey"`
	AuthorID  string               `gorm:"type:varchar(36);index;not null"`
	Title     string               `gorm:"type:varchar(200);not null"`
	Body      string               `gorm:"type:text"`
	Status    string               `gorm:"type:varchar(20);index;not null;default:'draft'"`
	Tags      database.StringArray `gorm:"type:text"`
	CreatedAt time.Time            `gorm:"autoCreateTime"`
	UpdatedAt time.Time            `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt       `gorm:"index"`
}

func (ArticleModel) TableName() string {
	return "articles"
}

func (m *ArticleModel) SearchCategory() string { return ArticleCategory }
func (m *ArticleModel) PrimaryKey() string     { return m.ID }

// ToSearchDocument returns the indexed fields. Drafts are not searchable.
func (m *ArticleModel) ToSearchDocument() map[string]any {
	if ArticleStatus(m.Status) == ArticleStatusDraft {
		return nil
	}
	tags := []string(m.Tags)
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"id":         m.ID,
		"author_id":  m.AuthorID,
		"title":      m.Title,
		"body":       m.Body,
		"status":     m.Status,
		"tags":       tags,
		"created_at": m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToDomain converts ArticleModel to the API representation.
func (m *ArticleModel) ToDomain() *Article {
	return &Article{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Title:     m.Title,
		Body:      m.Body,
		Status:    ArticleStatus(m.Status),
		Tags:      []string(m.Tags),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Article is an article as returned by the API.
type Article struct {
	ID        string        `json:"id"`
	AuthorID  string        `json:"author_id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	Status    ArticleStatus `json:"status"`
	Tags      []string      `json:"tags"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ArticlesMapping is the index definition used when the index is created on startup.
func ArticlesMapping() map[string]any {
	return map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":         map[string]any{"type": "keyword"},
				"author_id":  map[string]any{"type": "keyword"},
				"title":      map[string]any{"type": "text"},
				"body":       map[string]any{"type": "text"},
				"status":     map[string]any{"type": "keyword"},
				"tags":       map[string]any{"type": "keyword"},
				"created_at": map[string]any{"type": "date"},
			},
		},
	}
}
