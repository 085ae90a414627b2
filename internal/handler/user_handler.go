package handler

import (
	"net/http"

	"MyHome/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users  *service.UserService
	houses *service.HouseService
}

// SignUpReq 注册请求体
type SignUpReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PasswordReq FORGOT 只需要 email，RESET 还需要 token 和新密码
type PasswordReq struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func NewUserHandler(users *service.UserService, houses *service.HouseService) *UserHandler {
	return &UserHandler{users: users, houses: houses}
}

// SignUp 注册接口
func (h *UserHandler) SignUp(c *gin.Context) {
	var req SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserDto(user))
}

func (h *UserHandler) ListAll(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	users, err := h.users.ListAll(c.Request.Context(), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": mapAll(users, toUserDto)})
}

func (h *UserHandler) GetUserDetails(c *gin.Context) {
	d, err := h.users.GetUserDetails(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	dto := toUserDto(d.User)
	dto.CommunityIDs = d.CommunityIDs
	c.JSON(http.StatusOK, dto)
}

// UsersPassword ?action=FORGOT 发送重置令牌，?action=RESET 重置密码
func (h *UserHandler) UsersPassword(c *gin.Context) {
	var req PasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c)
		return
	}

	var err error
	switch c.Query("action") {
	case "FORGOT":
		err = h.users.RequestResetPassword(c.Request.Context(), req.Email)
	case "RESET":
		err = h.users.ResetPassword(c.Request.Context(), req.Email, req.Token, req.NewPassword)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"msg": "action must be FORGOT or RESET"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *UserHandler) ConfirmEmail(c *gin.Context) {
	if err := h.users.ConfirmEmail(c.Request.Context(), c.Param("userId"), c.Param("emailConfirmToken")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "email confirmed"})
}

func (h *UserHandler) ResendConfirmEmail(c *gin.Context) {
	if err := h.users.ResendConfirmEmail(c.Request.Context(), c.Param("userId")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// ListUserHouses 用户所管理社区的房屋
func (h *UserHandler) ListUserHouses(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	houses, err := h.houses.ListUserHouses(c.Request.Context(), c.Param("userId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"houses": mapAll(houses, toHouseDto)})
}

func (h *UserHandler) ListHousemates(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}
	members, err := h.houses.ListHouseMembersForHousesOfUser(c.Request.Context(), c.Param("userId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": mapAll(members, toMemberDto)})
}
