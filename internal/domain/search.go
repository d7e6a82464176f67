package domain

// SearchRequest is a paginated full-text search. Filters are bound by the
// handler from the remaining query parameters.
type SearchRequest struct {
	Query   string            `form:"q" binding:"required"`
	Page    int               `form:"page"`
	PerPage int               `form:"per_page"`
	Filters map[string]string `form:"-"`
}

// SearchResponse is one page of matching articles.
type SearchResponse struct {
	Items       []*Article `json:"items"`
	Total       int64      `json:"total"`
	PerPage     int        `json:"per_page"`
	CurrentPage int        `json:"current_page"`
	LastPage    int        `json:"last_page"`
}

// IDsRequest asks for matching identifiers only.
type IDsRequest struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit"`
}

// IDsResponse lists matching identifiers in relevance order.
type IDsResponse struct {
	IDs   []string `json:"ids"`
	Total int64    `json:"total"`
}

// IndexOperation reports the outcome of an import or flush.
type IndexOperation struct {
	Category string `json:"category"`
	Records  int    `json:"records"`
}

// ChangeOp is the kind of a model change event.
type ChangeOp string

const (
	ChangeSaved   ChangeOp = "saved"
	ChangeDeleted ChangeOp = "deleted"
)

// ChangeEvent announces that an article was written or removed.
type ChangeEvent struct {
	Op        ChangeOp `json:"op"`
	ID        string   `json:"id"`
	Timestamp int64    `json:"timestamp"`
}
