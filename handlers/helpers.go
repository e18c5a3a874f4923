package handlers

import (
	"net/http"

	"towgo/services/degrade"
	"towgo/utils"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the authenticated user, writing a 401 when absent.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(utils.ContextUserID)
	if userID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "User not authenticated", "")
		return "", false
	}
	return userID, true
}

// respond writes a best-effort result, flagging fallbacks in a header.
func respond[T any](c *gin.Context, status int, r degrade.Result[T], body any) {
	if r.Degraded {
		c.Header(utils.DegradedHeader, r.Reason)
	}
	c.JSON(status, body)
}
