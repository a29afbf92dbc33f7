package history

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, handler *Handler) {
	historyGroup := router.Group("/api/v1/history")
	{
		historyGroup.GET("", handler.List)
		historyGroup.GET("/school/:school", handler.ListBySchool)
		historyGroup.POST("/school/:school/archive", handler.ForceArchive)
		historyGroup.GET("/intern/:intern_id", handler.GetByIntern)
		historyGroup.DELETE("/expired", handler.DeleteExpired)
	}
}
