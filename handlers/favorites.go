package handlers

import (
	"errors"
	"net/http"
	"strings"

	"towgo/models"
	"towgo/services/favorites"
	"towgo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FavoritesHandler serves the per-user saved businesses.
type FavoritesHandler struct {
	Favorites FavoritesService
}

// NewFavoritesHandler wires the favorites endpoints.
func NewFavoritesHandler(f FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{Favorites: f}
}

// ListFavorites handles GET /api/favorites.
func (h *FavoritesHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	favs, err := h.Favorites.List(c.Request.Context(), userID)
	if err != nil {
		getLogger(c).Error("Failed to list favorites", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load favorites", "")
		return
	}
	if favs == nil {
		favs = []models.Favorite{}
	}
	c.JSON(http.StatusOK, favs)
}

// AddFavorite handles POST /api/favorites. Re-adding a saved place returns
// the existing entry with 200.
func (h *FavoritesHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var b models.Business
	if err := c.ShouldBindJSON(&b); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid business payload", err.Error())
		return
	}

	fav, created, err := h.Favorites.Add(c.Request.Context(), userID, b)
	if err != nil {
		if errors.Is(err, favorites.ErrMissingPlaceID) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid business payload", err.Error())
			return
		}
		getLogger(c).Error("Failed to add favorite", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save favorite", "")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, fav)
}

// RemoveFavorite handles DELETE /api/favorites/:placeId.
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	placeID := strings.TrimSpace(c.Param("placeId"))

	err := h.Favorites.Remove(c.Request.Context(), userID, placeID)
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, favorites.ErrFavoriteNotFound):
		utils.JSONError(c, http.StatusNotFound, "Favorite not found", placeID)
	case errors.Is(err, favorites.ErrMissingPlaceID):
		utils.JSONError(c, http.StatusBadRequest, "Missing placeId", "")
	default:
		getLogger(c).Error("Failed to remove favorite", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to remove favorite", "")
	}
}

// CheckFavorite handles GET /api/favorites/:placeId.
func (h *FavoritesHandler) CheckFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	placeID := strings.TrimSpace(c.Param("placeId"))

	isFav, err := h.Favorites.IsFavorite(c.Request.Context(), userID, placeID)
	if err != nil {
		getLogger(c).Error("Failed to check favorite", zap.String("userID", userID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to check favorite", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"placeId": placeID, "isFavorite": isFav})
}
