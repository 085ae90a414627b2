package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

// Authenticator 校验 token 并返回用户 id
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// Auth 校验 Bearer token，且必须是 redis 中记录的当前会话
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			return
		}

		userID, err := auth.Authenticate(c.Request.Context(), parts[1])
		if errors.Is(err, service.ErrUnauthorized) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		}
		// 会话存储不可用不是登录态问题
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
			return
		}

		// 注入 user_id
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// CurrentUserID 返回 Auth 注入的用户 id，未登录时为空
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
