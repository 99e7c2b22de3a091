package router

import (
	"net/http"

	"github.com/devblog-next/internal/config"
	adminhandlers "github.com/devblog-next/internal/http/handlers/admin"
	publichandlers "github.com/devblog-next/internal/http/handlers/public"
	"github.com/devblog-next/internal/http/response"
	"github.com/devblog-next/internal/logger"
	"github.com/devblog-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	var redisClient *redis.Client
	if c.Cache != nil {
		redisClient = c.Cache.Client()
	}
	publicRule := RateLimitRule{
		Prefix:        c.Cache.Key("rate:public"),
		WindowSeconds: cfg.Security.PublicRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.PublicRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 静态文件服务（上传的图片）
	r.Static("/uploads", c.UploadService.Dir())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		public.Use(RateLimitMiddleware(redisClient, publicRule, KeyByIP))
		{
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/:slug", publicHandler.GetPostBySlug)
			public.GET("/tags", publicHandler.GetTags)
		}

		// 管理接口
		admin := apiV1.Group("/admin")
		{
			admin.GET("/posts", adminHandler.GetAdminPosts)
			admin.POST("/posts", adminHandler.CreatePost)
			admin.POST("/posts/preview", adminHandler.PreviewPost)
			admin.GET("/posts/:id", adminHandler.GetAdminPost)
			admin.PUT("/posts/:id", adminHandler.UpdatePost)
			admin.DELETE("/posts/:id", adminHandler.DeletePost)
			admin.GET("/stats/posts", adminHandler.GetPostStats)
			admin.POST("/upload", adminHandler.UploadFile)
		}
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "接口不存在")
	})

	return r
}
