package user

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	r.GET("/profile", auth, handler.Profile)
	r.GET("/user/info", auth, handler.Info)
}
