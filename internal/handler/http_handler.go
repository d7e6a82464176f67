package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/audit"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/domain"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/service"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/middleware"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/response"
)

// reservedParams are query parameters that are never treated as filters.
var reservedParams = map[string]struct{}{
	"q":        {},
	"page":     {},
	"per_page": {},
}

// Handler handles HTTP requests for article search.
type Handler struct {
	searchService service.SearchService
	auth          *middleware.AuthMiddleware
	adminRole     string
}

// NewHandler creates a new HTTP handler.
func NewHandler(searchService service.SearchService, auth *middleware.AuthMiddleware, adminRole string) *Handler {
	return &Handler{
		searchService: searchService,
		auth:          auth,
		adminRole:     adminRole,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/search", h.Search)
		api.GET("/search/ids", h.SearchIDs)
	}

	admin := api.Group("/admin", h.auth.RequireRole(h.adminRole))
	{
		admin.POST("/import", h.Import)
		admin.POST("/flush", h.Flush)
	}
}

// Search handles paginated article search. Query parameters other than
// q, page and per_page are exact-match filters.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid search request")
		response.BadRequest(c, err.Error())
		return
	}

	req.Filters = make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if _, ok := reservedParams[key]; ok || len(values) == 0 {
			continue
		}
		req.Filters[key] = values[0]
	}

	result, err := h.searchService.Search(ctx, &req)
	if err != nil {
		l.Error().Err(err).Str(log.FieldQuery, req.Query).Msg("search failed")
		response.BadGateway(c, "search failed")
		return
	}

	response.Success(c, result)
}

// SearchIDs returns matching article ids in relevance order.
func (h *Handler) SearchIDs(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.IDsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid search request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.searchService.SearchIDs(ctx, &req)
	if err != nil {
		l.Error().Err(err).Str(log.FieldQuery, req.Query).Msg("search ids failed")
		response.BadGateway(c, "search failed")
		return
	}

	response.Success(c, result)
}

// Import re-indexes every article.
func (h *Handler) Import(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(middleware.UserIDKey)

	op, err := h.searchService.Import(ctx)
	audit.Log(ctx, audit.ActionImport, userID, op.Category, op.Records, err)
	if err != nil {
		response.BadGateway(c, "import failed")
		return
	}

	response.Success(c, op)
}

// Flush removes every article from the index.
func (h *Handler) Flush(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(middleware.UserIDKey)

	op, err := h.searchService.Flush(ctx)
	audit.Log(ctx, audit.ActionFlush, userID, op.Category, op.Records, err)
	if err != nil {
		response.BadGateway(c, "flush failed")
		return
	}

	response.Success(c, op)
}
