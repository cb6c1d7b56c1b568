package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campuscare/internal/app/controllers"
	"github.com/yigit/campuscare/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	studentController *controllers.StudentController,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	v1 := router.Group("/api/v1")

	students := v1.Group("/students")
	{
		// Credential endpoints are throttled per client IP.
		students.POST("/register", rateLimiter.Middleware(), studentController.Register)
		students.POST("/login", rateLimiter.Middleware(), studentController.Login)

		students.GET("/me", authMiddleware.JWTAuth(), studentController.Me)
	}
}
