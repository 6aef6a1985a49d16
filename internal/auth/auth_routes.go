package auth

import (
	"attendly/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	// Credential endpoints are rate limited per IP, they are the only
	// unauthenticated write surface.
	limiter := middleware.RateLimitByIP(1, 5)

	r.POST("/signup", limiter, handler.Signup)
	r.POST("/login", limiter, handler.Login)
	r.POST("/reset-password", limiter, handler.ResetPassword)

	r.GET("/validate-token", auth, handler.ValidateToken)
}
