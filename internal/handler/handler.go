package handler

import (
	"errors"
	"net/http"

	"MyHome/internal/middleware"
	"MyHome/internal/pkg"
	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError 把服务层错误映射为 HTTP 状态码，未知错误交给日志中间件记录
func writeError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrPayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"msg": err.Error()})
}

func invalidParams(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
}

// bindPage 读取 ?page=&size=
func bindPage(c *gin.Context) (pkg.Page, bool) {
	var p pkg.Page
	if err := c.ShouldBindQuery(&p); err != nil {
		invalidParams(c)
		return p, false
	}
	return p, true
}

func currentUserID(c *gin.Context) string {
	return middleware.CurrentUserID(c)
}
