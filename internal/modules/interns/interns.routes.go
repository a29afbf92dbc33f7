package interns

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, handler *Handler) {
	internsGroup := router.Group("/api/v1/interns")
	{
		internsGroup.POST("", handler.Create)
		internsGroup.GET("", handler.List)
		internsGroup.GET("/:id", handler.Get)
		internsGroup.PUT("/:id", handler.Update)
		internsGroup.PATCH("/:id/status", handler.UpdateStatus)
		internsGroup.DELETE("/:id", handler.Delete)
		internsGroup.GET("/school/:school", handler.ListBySchool)
	}
}
