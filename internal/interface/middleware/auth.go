package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
	"github.com/echobloom/echobloom-backend/pkg/response"
)

// Auth validates the access token cookie and ensures the session still lives
// in Redis. It sets userID and sessionID in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", err.Error())
			return
		}

		var sess application.Session
		found, err := helpers.RedisGetJSON(c.Request.Context(), rdb, "user:session:"+claims.SessionID, &sess)
		if err != nil || !found || sess.UserID != claims.UserID {
			response.Abort(c, http.StatusUnauthorized, "session not found", nil)
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("sessionID", claims.SessionID)
		c.Next()
	}
}
