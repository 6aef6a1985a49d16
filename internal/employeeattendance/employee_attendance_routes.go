package employeeattendance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	records := r.Group("/employee-attendance")
	records.Use(auth)
	{
		records.POST("", handler.Mark)
		records.GET("", handler.List)
		records.GET("/date/:date", handler.ListByDate)
	}
}
