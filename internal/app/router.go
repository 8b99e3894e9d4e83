package app

import (
	"test_portal_backend/docs"
	"test_portal_backend/internal/config"
	"test_portal_backend/internal/middleware"
	"test_portal_backend/internal/model"
	"test_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	public := router.Group("/api/auth")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authed := router.Group("/api")
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.GET("/tests", c.test.ListTests)
		authed.GET("/tests/:id", c.test.GetTest)

		authed.POST("/attempts", c.attempt.SubmitAttempt)
		authed.GET("/attempts/my-attempts", c.attempt.MyAttempts)
		authed.GET("/attempts/test/:testId", c.attempt.TestRankings)

		authed.POST("/revisions", c.revision.MarkRevision)
		authed.GET("/revisions", c.revision.ListRevisions)
		authed.DELETE("/revisions", c.revision.UnmarkRevision)

		admin := authed.Group("/")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/tests", c.test.CreateTest)
			admin.PUT("/tests/:id", c.test.UpdateTest)
			admin.DELETE("/tests/:id", c.test.DeleteTest)

			admin.GET("/auth/students", c.auth.ListStudents)
			admin.DELETE("/auth/students/:id", c.auth.DeleteStudent)

			admin.GET("/analytics/test/:testId", c.analytics.TestAnalytics)
		}
	}
}
