package leave

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	leaves := r.Group("/leave")
	leaves.Use(auth)
	{
		leaves.POST("/request", handler.Create)
		leaves.GET("/history", handler.History)
	}
}
