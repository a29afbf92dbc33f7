package attendance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.Engine, handler *Handler) {
	attendanceGroup := router.Group("/api/v1/attendance")
	{
		attendanceGroup.POST("/check-in", handler.CheckIn)
		attendanceGroup.POST("/check-out", handler.CheckOut)
		attendanceGroup.POST("/scan", handler.Scan)
		attendanceGroup.GET("/:id", handler.GetAttendance)
		attendanceGroup.PUT("/:id", handler.UpdateAttendance)
		attendanceGroup.DELETE("/:id", handler.DeleteAttendance)
		attendanceGroup.GET("/intern/:intern_id", handler.ListByIntern)
		attendanceGroup.GET("/school/:school", handler.ListBySchool)
		attendanceGroup.GET("/school/:school/export", handler.Export)
		attendanceGroup.GET("/date/:date", handler.ListByDate)
		attendanceGroup.POST("/mark-absent", handler.MarkAbsent)
		attendanceGroup.POST("/sweep", handler.Sweep)
	}
}
