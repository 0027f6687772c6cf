package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/models"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/services"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/utils"
	"github.com/aoliva-2020376/GestorAcademico-2020376/internal/validator"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	userHandler    *UserHandler
	courseHandler  *CourseHandler
	authMiddleware *JWTAuthMiddleware

	serviceManager services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	tokens *utils.TokenManager,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(tokens)

	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), serviceManager.Auth(), logger),
		courseHandler:  NewCourseHandler(serviceManager.Course(), serviceManager.Enrollment(), serviceManager.Report(), logger),
		authMiddleware: authMiddleware,
		serviceManager: serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.POST("/login", hm.authHandler.Login)
			auth.GET("/test", hm.authMiddleware.AuthMiddleware(), hm.authHandler.Test)
		}

		// User routes
		users := api.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.POST("", hm.userHandler.CreateUser)

			// Self-service routes require authentication
			users.PUT("/:id", hm.authMiddleware.AuthMiddleware(), hm.userHandler.UpdateUser)
			users.PUT("/:id/password", hm.authMiddleware.AuthMiddleware(), hm.userHandler.UpdatePassword)
			users.DELETE("/:id", hm.authMiddleware.AuthMiddleware(), hm.userHandler.DeleteUser)
		}

		// Course routes
		courses := api.Group("/courses")
		{
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)

			// Teacher-only management
			courses.POST("", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.CreateCourse)
			courses.PUT("/:id", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.DeleteCourse)
			courses.GET("/:id/roster", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.ExportRoster)

			// Student enrollment (self only, enforced in the service)
			courses.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.courseHandler.MyCourses)
			courses.POST("/students/:studentId/courses/:courseId", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.courseHandler.EnrollStudent)
			courses.DELETE("/students/:studentId/courses/:courseId", hm.authMiddleware.AuthMiddleware(), hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.courseHandler.UnenrollStudent)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{
				"status":  "unhealthy",
				"service": "academic-service",
			})
			return
		}
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "academic-service",
		})
	})
}
