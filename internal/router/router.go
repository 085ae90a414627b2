package router

import (
	"fmt"
	"net/http"
	"slices"
	"time"

	"MyHome/internal/handler"
	"MyHome/internal/metrics"
	"MyHome/internal/middleware"
	"MyHome/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由依赖的全部服务
type Services struct {
	Users       *service.UserService
	Auth        *service.AuthService
	Communities *service.CommunityService
	Houses      *service.HouseService
	Documents   *service.DocumentService
	Amenities   *service.AmenityService
	Bookings    *service.BookingService
	Payments    *service.PaymentService
}

type Options struct {
	AllowedOrigins []string
	// TrustedProxies 为空时不信任任何代理，客户端 IP 取连接地址
	TrustedProxies []string
	// LoginLimiter 为 nil 时登录不限流
	LoginLimiter *middleware.RateLimiter
	// Metrics 为 nil 时不暴露 /metrics
	Metrics     *metrics.Metrics
	MetricsPath string
	Log         *zap.Logger
}

func InitRouter(svc Services, opt Options) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(opt.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	r.Use(middleware.Recovery(opt.Log), middleware.Logger(opt.Log), opt.Metrics.Middleware())
	r.Use(cors.New(corsConfig(opt.AllowedOrigins)))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if opt.Metrics != nil {
		path := opt.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(opt.Metrics.Handler()))
	}

	user := handler.NewUserHandler(svc.Users, svc.Houses)
	auth := handler.NewAuthHandler(svc.Auth)
	community := handler.NewCommunityHandler(svc.Communities)
	house := handler.NewHouseHandler(svc.Houses)
	document := handler.NewDocumentHandler(svc.Documents)
	amenity := handler.NewAmenityHandler(svc.Amenities, svc.Bookings)
	payment := handler.NewPaymentHandler(svc.Payments)

	// 无需登录的接口
	login := []gin.HandlerFunc{auth.Login}
	if opt.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{opt.LoginLimiter.Handler()}, login...)
	}
	r.POST("/auth/login", login...)
	r.POST("/users", user.SignUp)
	r.POST("/users/password", user.UsersPassword)
	r.GET("/users/:userId/email-confirm/:emailConfirmToken", user.ConfirmEmail)
	r.POST("/users/:userId/email-confirm/resend", user.ResendConfirmEmail)

	// 登录态接口，/communities/{id}/admins 下还要求是社区管理员
	authGroup := r.Group("/")
	authGroup.Use(middleware.Auth(svc.Auth), middleware.CommunityAdmin(svc.Communities, opt.Log))
	{
		authGroup.POST("/auth/logout", auth.Logout)

		authGroup.GET("/users", user.ListAll)
		authGroup.GET("/users/:userId", user.GetUserDetails)
		authGroup.GET("/users/:userId/houses", user.ListUserHouses)
		authGroup.GET("/users/:userId/housemates", user.ListHousemates)

		authGroup.POST("/communities", community.Create)
		authGroup.GET("/communities", community.List)
		authGroup.GET("/communities/:communityId", community.Details)
		authGroup.DELETE("/communities/:communityId", community.Delete)
		authGroup.GET("/communities/:communityId/admins", community.ListAdmins)
		authGroup.POST("/communities/:communityId/admins", community.AddAdmins)
		authGroup.DELETE("/communities/:communityId/admins/:adminId", community.RemoveAdmin)
		authGroup.GET("/communities/:communityId/admins/:adminId/payments", payment.ListByAdmin)
		authGroup.GET("/communities/:communityId/houses", community.ListHouses)
		authGroup.POST("/communities/:communityId/houses", community.AddHouses)
		authGroup.DELETE("/communities/:communityId/houses/:houseId", community.RemoveHouse)
		authGroup.GET("/communities/:communityId/payments", payment.ListByCommunity)
		authGroup.GET("/communities/:communityId/amenities", amenity.ListByCommunity)
		authGroup.POST("/communities/:communityId/amenities", amenity.Create)

		authGroup.GET("/houses", house.List)
		authGroup.GET("/houses/:houseId", house.Details)
		authGroup.GET("/houses/:houseId/members", house.ListMembers)
		authGroup.POST("/houses/:houseId/members", house.AddMembers)
		authGroup.DELETE("/houses/:houseId/members/:memberId", house.DeleteMember)

		authGroup.GET("/members/:memberId/documents", document.Get)
		authGroup.POST("/members/:memberId/documents", document.Create)
		authGroup.PUT("/members/:memberId/documents", document.Update)
		authGroup.DELETE("/members/:memberId/documents", document.Delete)
		authGroup.GET("/members/:memberId/payments", payment.ListByMember)

		authGroup.GET("/amenities/:amenityId", amenity.Details)
		authGroup.PUT("/amenities/:amenityId", amenity.Update)
		authGroup.DELETE("/amenities/:amenityId", amenity.Delete)
		authGroup.GET("/amenities/:amenityId/bookings", amenity.ListBookings)
		authGroup.POST("/amenities/:amenityId/bookings", amenity.Book)
		authGroup.DELETE("/amenities/:amenityId/bookings/:bookingId", amenity.DeleteBooking)

		authGroup.POST("/payments", payment.Schedule)
		authGroup.GET("/payments/:paymentId", payment.Details)
	}

	return r, nil
}

// corsConfig 未配置来源或包含 * 时允许所有来源
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"token", "userId", "expiration"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
