package handler

import (
	"net/http"
	"strconv"

	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *service.AuthService
}

type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login 成功后 token 同时放在响应头和响应体里
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}

	claims, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	expiration := claims.Expiration.Unix()
	c.Header("token", token)
	c.Header("userId", claims.UserID)
	c.Header("expiration", strconv.FormatInt(expiration, 10))
	c.JSON(http.StatusOK, gin.H{
		"userId":     claims.UserID,
		"token":      token,
		"expiration": expiration,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
