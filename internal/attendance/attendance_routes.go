package attendance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	records := r.Group("/attendance")
	records.Use(auth)
	{
		records.POST("/check-in", handler.CheckIn)
		records.POST("/check-out", handler.CheckOut)
		records.GET("/records", handler.Records)
		records.GET("/summary", handler.Summary)
	}
}
