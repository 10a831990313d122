package router

import (
	"fmt"
	"strings"

	"github.com/fenxiao-mall/internal/cache"
	"github.com/fenxiao-mall/internal/config"
	adminhandlers "github.com/fenxiao-mall/internal/http/handlers/admin"
	publichandlers "github.com/fenxiao-mall/internal/http/handlers/public"
	"github.com/fenxiao-mall/internal/http/response"
	"github.com/fenxiao-mall/internal/logger"
	"github.com/fenxiao-mall/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fx"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", func(ctx *gin.Context) {
		response.Success(ctx, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口：下单、订单查询、分销注册与树查询
		public := apiV1.Group("/public")
		{
			public.POST("/orders", publicHandler.CreateOrder)
			public.GET("/orders/:id", publicHandler.GetOrder)
			public.GET("/orders/by-order-no/:order_no", publicHandler.GetOrderByNo)
			public.POST("/affiliates", publicHandler.RegisterAffiliate)
			public.GET("/affiliates/:id/tree", publicHandler.GetAffiliateTree)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login",
				RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")),
				adminHandler.Login,
			)

			authed := admin.Group("")
			authed.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authed.GET("/orders", adminHandler.GetAdminOrders)
				authed.GET("/orders/:id", adminHandler.GetAdminOrder)
				authed.PUT("/orders/:id/status", adminHandler.UpdateAdminOrderStatus)
				authed.DELETE("/orders/:id", adminHandler.DeleteAdminOrder)

				authed.GET("/commissions", adminHandler.GetAdminCommissions)

				authed.GET("/affiliates", adminHandler.GetAdminAffiliates)
				authed.GET("/affiliates/:id/tree", adminHandler.GetAdminAffiliateTree)
				authed.PUT("/affiliates/:id/status", adminHandler.UpdateAdminAffiliateStatus)

				authed.POST("/vendors", adminHandler.CreateAdminVendor)
				authed.GET("/vendors", adminHandler.GetAdminVendors)
				authed.POST("/products", adminHandler.CreateAdminProduct)
				authed.GET("/products/:id", adminHandler.GetAdminProduct)
			}
		}
	}

	return r
}
