package api

import (
	"github.com/gin-gonic/gin"

	"jobly/internal/api/middleware"
	"jobly/internal/auth"
)

// RegisterRoutes 注册业务路由。身份识别对所有路由生效，访问控制按路由单独声明。
func RegisterRoutes(
	router *gin.Engine,
	stores Stores,
	authService *auth.AuthService,
	rate RateCounter,
	loginRateLimitPerHour int,
) {
	authHandler := NewAuthHandler(stores.Users, authService, rate, loginRateLimitPerHour)
	companyHandler := NewCompanyHandler(stores.Companies)
	jobHandler := NewJobHandler(stores.Jobs)
	userHandler := NewUserHandler(stores.Users, authService)

	public := middleware.RequirePublic()
	requireAdmin := middleware.RequireAdmin()
	requireSelfOrAdmin := middleware.RequireSelfOrAdmin("username")

	router.Use(middleware.Authenticate(authService))

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/token", public, authHandler.Token)
		authGroup.POST("/register", public, authHandler.Register)
	}

	companyGroup := router.Group("/companies")
	{
		companyGroup.POST("", requireAdmin, companyHandler.Create)
		companyGroup.GET("", public, companyHandler.List)
		companyGroup.GET("/:handle", public, companyHandler.Get)
		companyGroup.PATCH("/:handle", requireAdmin, companyHandler.Update)
		companyGroup.DELETE("/:handle", requireAdmin, companyHandler.Delete)
	}

	jobGroup := router.Group("/jobs")
	{
		jobGroup.POST("", requireAdmin, jobHandler.Create)
		jobGroup.GET("", public, jobHandler.List)
		jobGroup.GET("/:id", public, jobHandler.Get)
		jobGroup.PATCH("/:id", requireAdmin, jobHandler.Update)
		jobGroup.DELETE("/:id", requireAdmin, jobHandler.Delete)
	}

	userGroup := router.Group("/users")
	{
		userGroup.POST("", requireAdmin, userHandler.Create)
		userGroup.GET("", requireAdmin, userHandler.List)
		userGroup.GET("/:username", requireSelfOrAdmin, userHandler.Get)
		userGroup.PATCH("/:username", requireSelfOrAdmin, userHandler.Update)
		userGroup.DELETE("/:username", requireSelfOrAdmin, userHandler.Delete)
		userGroup.POST("/:username/jobs/:id", requireSelfOrAdmin, userHandler.Apply)
	}
}
