package app

import (
	"stareduca_backend/docs"
	"stareduca_backend/internal/config"
	"stareduca_backend/internal/middleware"
	"stareduca_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/exchange", c.auth.Exchange)
		public.POST("/auth/dev-login", c.auth.DevLogin)
	}

	// 2. 学生会话路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		authGroup.GET("/courses", c.course.ListCourses)
		authGroup.GET("/courses/:id", c.course.GetCourse)

		authGroup.GET("/progress", c.progress.GetProgress)
		authGroup.POST("/progress", c.progress.SaveProgress)

		authGroup.GET("/gamification", c.gamification.GetSummary)
		authGroup.POST("/gamification", c.gamification.AwardXP)

		authGroup.GET("/exams", c.exam.GetExam)
		authGroup.POST("/exams/:id/submit", c.exam.SubmitExam)

		authGroup.GET("/posts", c.community.ListPosts)
		authGroup.POST("/posts", c.community.CreatePost)
		authGroup.PATCH("/posts/:id", c.community.UpdatePost)
		authGroup.DELETE("/posts/:id", c.community.DeletePost)
		authGroup.GET("/posts/:id/reactions", c.community.ListReactions)
		authGroup.POST("/posts/:id/reactions", c.community.React)
		authGroup.DELETE("/posts/:id/reactions", c.community.RemoveReaction)
		authGroup.GET("/posts/:id/comments", c.community.ListComments)
		authGroup.POST("/posts/:id/comments", c.community.CreateComment)

		authGroup.GET("/notifications", c.notification.ListNotifications)
		authGroup.PATCH("/notifications", c.notification.MarkRead)

		authGroup.POST("/upload", c.upload.UploadImage)
	}

	// 3. 内容后台路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.AdminKeyMiddleware(cfg))
	{
		admin.POST("/courses", c.content.CreateCourse)
		admin.PUT("/courses/:id", c.content.UpdateCourse)
		admin.POST("/courses/:id/modules", c.content.AddModule)
		admin.POST("/modules/:id/lessons", c.content.AddLesson)
		admin.POST("/lessons/:id/video", c.content.UploadLessonVideo)
		admin.PUT("/courses/:id/exam", c.content.SetExam)
	}
}
