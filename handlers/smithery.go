package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"towgo/services/smithery"
	"towgo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SmitheryHandler proxies the tool registry.
type SmitheryHandler struct {
	Registry RegistryClient
}

// NewSmitheryHandler wires the registry endpoints.
func NewSmitheryHandler(r RegistryClient) *SmitheryHandler {
	return &SmitheryHandler{Registry: r}
}

// ListServers handles GET /api/smithery/servers.
func (h *SmitheryHandler) ListServers(c *gin.Context) {
	page, err := optionalInt(c.Query("page"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "page must be an integer", err.Error())
		return
	}
	pageSize, err := optionalInt(c.Query("pageSize"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "pageSize must be an integer", err.Error())
		return
	}
	res := h.Registry.ListServers(c.Request.Context(), c.Query("q"), page, pageSize)
	respond(c, http.StatusOK, res, res.Value)
}

// GetServer handles GET /api/smithery/servers/*name. Qualified names may
// contain slashes.
func (h *SmitheryHandler) GetServer(c *gin.Context) {
	name := strings.Trim(c.Param("name"), "/")
	if name == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing server name", "")
		return
	}

	server, err := h.Registry.GetServer(c.Request.Context(), name)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, server)
	case errors.Is(err, smithery.ErrServerNotFound):
		utils.JSONError(c, http.StatusNotFound, "Server not found", name)
	case errors.Is(err, smithery.ErrUnavailable):
		utils.JSONError(c, http.StatusServiceUnavailable, "Registry is unavailable", "")
	default:
		getLogger(c).Error("Registry lookup failed", zap.String("name", name), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Registry lookup failed", "")
	}
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
