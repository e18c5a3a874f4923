package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	userRepo "towgo/database/repository/user"
	"towgo/models"
	"towgo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthMiddleware requires a bearer token signed with the shared secret
// and stores its subject under utils.ContextUserID. When users is non-nil,
// each subject is recorded once per process; recording failures do not
// reject the request.
func JWTAuthMiddleware(tokens *utils.TokenManager, users userRepo.UserRepository) gin.HandlerFunc {
	var seen sync.Map
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", "")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		userID, email, err := tokens.ExtractClaims(tokenString)
		if err != nil || userID == "" {
			zap.L().Debug("Rejected bearer token", zap.Error(err))
			utils.JSONError(c, http.StatusUnauthorized, "Invalid token", "")
			return
		}

		if users != nil {
			if _, known := seen.Load(userID); !known {
				u := &models.User{ID: userID, Email: email, CreatedAt: time.Now().UTC()}
				if err := users.Ensure(c.Request.Context(), u); err != nil {
					zap.L().Warn("Failed to record user", zap.String("userID", userID), zap.Error(err))
				} else {
					seen.Store(userID, struct{}{})
				}
			}
		}

		c.Set(utils.ContextUserID, userID)
		c.Next()
	}
}
