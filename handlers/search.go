package handlers

import (
	"errors"
	"net/http"
	"strings"

	"towgo/middleware"
	"towgo/models"
	"towgo/services/places"
	"towgo/services/websearch"
	"towgo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchHandler serves the search, enhancement and recommendation endpoints.
type SearchHandler struct {
	Places   PlacesSearcher
	Enhancer QueryEnhancer
	Web      WebSearcher
}

// NewSearchHandler wires the search endpoints.
func NewSearchHandler(p PlacesSearcher, e QueryEnhancer, w WebSearcher) *SearchHandler {
	return &SearchHandler{Places: p, Enhancer: e, Web: w}
}

// SearchBusinesses handles GET /api/search.
func (h *SearchHandler) SearchBusinesses(c *gin.Context) {
	logger := getLogger(c)

	params := models.SearchParams{Radius: models.DefaultRadius}
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid search parameters", err.Error())
		return
	}

	var fallback *models.LatLng
	if geo := middleware.GeoLocationFrom(c); geo != nil {
		fallback = geo.Point()
	}

	results, err := h.Places.Search(c.Request.Context(), params, fallback)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidRadius),
			errors.Is(err, models.ErrInvalidSortBy),
			errors.Is(err, models.ErrInvalidCoordinates),
			errors.Is(err, models.ErrPartialCoordinates),
			errors.Is(err, places.ErrNoReferencePoint):
			utils.JSONError(c, http.StatusBadRequest, "Invalid search parameters", err.Error())
		case errors.Is(err, places.ErrLocationNotFound):
			utils.JSONError(c, http.StatusNotFound, "Location not found", params.Location)
		case errors.Is(err, places.ErrPlacesUnavailable):
			utils.JSONError(c, http.StatusServiceUnavailable, "Business search is unavailable", "")
		default:
			logger.Error("Business search failed", zap.Error(err))
			utils.JSONError(c, http.StatusBadGateway, "Business search failed", "Please try again later")
		}
		return
	}
	c.JSON(http.StatusOK, results)
}

// EnhanceQuery handles GET /api/perplexity.
func (h *SearchHandler) EnhanceQuery(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameter: query", "")
		return
	}
	res := h.Enhancer.EnhanceSearchQuery(c.Request.Context(), query, c.Query("location"))
	respond(c, http.StatusOK, res, res.Value)
}

// Recommendations handles GET /api/recommendations.
func (h *SearchHandler) Recommendations(c *gin.Context) {
	var prefs []string
	for _, raw := range c.QueryArray("preferences") {
		prefs = append(prefs, strings.Split(raw, ",")...)
	}
	res := h.Enhancer.GenerateRecommendations(c.Request.Context(), prefs, c.Query("location"))
	respond(c, http.StatusOK, res, gin.H{"recommendations": res.Value})
}

// WebSearch handles GET /api/websearch.
func (h *SearchHandler) WebSearch(c *gin.Context) {
	logger := getLogger(c)

	var req models.WebSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid web search parameters", err.Error())
		return
	}

	res, err := h.Web.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, websearch.ErrEmptyQuery) || errors.Is(err, models.ErrInvalidRadius) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid web search parameters", err.Error())
			return
		}
		logger.Error("Web search failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Web search failed", "")
		return
	}
	respond(c, http.StatusOK, res, res.Value)
}
