package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var communityAdminPath = regexp.MustCompile(`^/communities/([^/]+)/admins.*`)

// AdminChecker 判断用户是否是社区管理员
type AdminChecker interface {
	IsAdmin(ctx context.Context, communityID, userID string) (bool, error)
}

// CommunityAdmin 只拦截 /communities/{id}/admins 下的请求，必须挂在 Auth 之后
func CommunityAdmin(checker AdminChecker, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := communityAdminPath.FindStringSubmatch(c.Request.URL.Path)
		if m == nil {
			c.Next()
			return
		}

		ok, err := checker.IsAdmin(c.Request.Context(), m[1], CurrentUserID(c))
		if err != nil {
			log.Error("community admin check failed", zap.String("community_id", m[1]), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "not an admin of this community"})
			return
		}
		c.Next()
	}
}
