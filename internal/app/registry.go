package app

import (
	"net/http"

	"attendly/internal/attendance"
	"attendly/internal/auth"
	"attendly/internal/config"
	"attendly/internal/dashboard"
	"attendly/internal/employee"
	"attendly/internal/employeeattendance"
	"attendly/internal/leave"
	"attendly/internal/messaging/kafka"
	"attendly/internal/middleware"
	"attendly/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	recordRepo := employeeattendance.NewRepository(db)
	dashboardRepo := dashboard.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(db, userRepo, tokenService)
	userService := user.NewService(userRepo, employeeRepo)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, userRepo, outboxRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, rdb)
	leaveService := leave.NewService(leaveRepo)
	recordService := employeeattendance.NewService(db, recordRepo, employeeRepo, userRepo, outboxRepo)
	dashboardService := dashboard.NewService(dashboardRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	employeeHandler := employee.NewHandler(employeeService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)
	recordHandler := employeeattendance.NewHandler(recordService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// --- Middleware chain ---
	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	router.Use(middleware.ContextLogger(nil))

	requireAuth := middleware.RequireAuth([]byte(cfg.JWTSecret))
	requireAdmin := middleware.RequireAdmin(userRepo)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Attendance System API",
			"status":  "running",
			"version": "1.0",
			"endpoints": gin.H{
				"health":     "/api/health",
				"signup":     "/api/signup",
				"login":      "/api/login",
				"profile":    "/api/profile",
				"dashboard":  "/api/dashboard/stats",
				"attendance": "/api/attendance/*",
				"leave":      "/api/leave/*",
			},
		})
	})

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "API is running"})
		})

		auth.RegisterRoutes(api, authHandler, requireAuth)
		user.RegisterRoutes(api, userHandler, requireAuth)
		attendance.RegisterRoutes(api, attendanceHandler, requireAuth)
		leave.RegisterRoutes(api, leaveHandler, requireAuth)
		dashboard.RegisterRoutes(api, dashboardHandler, requireAuth)
		employee.RegisterRoutes(api, employeeHandler, requireAuth, requireAdmin)
		employeeattendance.RegisterRoutes(api, recordHandler, requireAuth)
	}

	return nil
}
