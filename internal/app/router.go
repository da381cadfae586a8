package app

import (
	"primary_reading_backend/docs"
	"primary_reading_backend/internal/config"
	"primary_reading_backend/internal/middleware"
	"primary_reading_backend/internal/model"
	"primary_reading_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerParentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 年级配置无需登录，注册页要用
		public.GET("/grades", c.grade.ListGrades)
		public.GET("/grades/:year", c.grade.GetGrade)
	}
}

func (a *App) registerParentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	// 儿童档案
	rg.POST("/children", c.profile.CreateProfile)
	rg.GET("/children", c.profile.GetProfiles)
	rg.PUT("/children/:id", c.profile.UpdateProfile)
	rg.DELETE("/children/:id", c.profile.DeleteProfile)

	// 故事
	rg.POST("/stories/generate", c.story.GenerateStory)
	rg.GET("/stories", c.story.ListStories)
	rg.GET("/stories/:id", c.story.GetStory)
	rg.DELETE("/stories/:id", c.story.DeleteStory)
	rg.POST("/stories/:id/rate", c.story.RateStory)
	rg.POST("/stories/:id/segments/:segmentId/image", c.story.RegenerateSegmentImage)

	// 阅读进度与答题
	rg.POST("/progress", c.progress.UpdateProgress)
	rg.GET("/progress/:childId", c.progress.GetProgress)
	rg.POST("/answers", c.progress.SubmitAnswer)
	rg.GET("/streak/:childId", c.progress.GetStreak)

	// 徽章
	rg.GET("/badges/:childId", c.badge.GetBadges)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user), middleware.RoleMiddleware(model.Admin))
	{
		// 管理员可浏览全部故事（含未公开）
		admin.GET("/stories", c.story.AdminListStories)
	}
}
