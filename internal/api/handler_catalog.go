package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brewery-catalog/internal/catalog"
	"brewery-catalog/internal/model"
	"brewery-catalog/internal/parse"
)

// ListResponse represents the API response for one page of breweries.
type ListResponse struct {
	Page        int             `json:"page"`
	PerPage     int             `json:"per_page"`
	Query       string          `json:"query,omitempty"`
	Sort        string          `json:"sort"`
	HasNextPage bool            `json:"has_next_page"`
	Breweries   []model.Brewery `json:"breweries"`
}

// GetBreweries handles the GET /api/breweries request.
func (h *Handler) GetBreweries(c *gin.Context) {
	q := catalog.ListQuery{
		Page:    parse.Page(c.DefaultQuery("page", "1")),
		PerPage: catalog.PageSize,
		Query:   parse.Search(c.Query("query")),
		Sort:    parse.Sort(c.Query("sort")),
	}

	breweries, err := h.catalog.List(c.Request.Context(), q)
	if err != nil {
		h.logger.Warn("failed to list breweries", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve breweries"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Page:        q.Page,
		PerPage:     q.PerPage,
		Query:       q.Query,
		Sort:        q.Sort.Param(),
		HasNextPage: len(breweries) == q.PerPage,
		Breweries:   breweries,
	})
}

// GetBrewery handles the GET /api/breweries/:id request.
func (h *Handler) GetBrewery(c *gin.Context) {
	b, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, catalog.ErrNotFound), err == nil && b == nil:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": catalog.ErrNotFound.Error()})
		return
	case err != nil:
		h.logger.Warn("failed to fetch brewery", zap.String("id", c.Param("id")), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to retrieve brewery"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// Healthz handles the GET /healthz request.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
