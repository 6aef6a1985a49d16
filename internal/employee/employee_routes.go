package employee

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth, admin gin.HandlerFunc) {
	employees := r.Group("/employees")
	employees.Use(auth)
	{
		employees.GET("", handler.List)
		employees.PUT("/:id/status", handler.UpdateStatus)

		employees.POST("", admin, handler.Create)
		employees.GET("/deleted", admin, handler.ListDeleted)
		employees.GET("/:id/details", admin, handler.Details)
		employees.DELETE("/:id", admin, handler.Delete)
	}
}
