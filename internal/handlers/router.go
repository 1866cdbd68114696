package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/academy-edu/auth-service/internal/auth"
	"github.com/academy-edu/auth-service/internal/models"
	"github.com/academy-edu/auth-service/internal/services"
	"github.com/academy-edu/auth-service/internal/utils"
)

type HandlerManager struct {
	accountHandler *AccountHandler
	userHandler    *UserHandler
	authMiddleware *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokenIssuer *auth.TokenIssuer,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		accountHandler: NewAccountHandler(serviceManager.Account(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		authMiddleware: NewJWTAuthMiddleware(tokenIssuer),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Account routes - no authentication
		account := api.Group("/account")
		{
			account.POST("/register", hm.accountHandler.Register)
			account.POST("/login", hm.accountHandler.Login)
		}

		// User management routes - Administrators and SuperAdmins only
		users := api.Group("/users")
		users.Use(hm.authMiddleware.AuthMiddleware())
		users.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdministrator, models.RoleSuperAdmin))
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/export", hm.userHandler.ExportUsers)
			users.GET("/:id", hm.userHandler.GetUser)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "auth-service",
		})
	})
}
