package httpapi

import (
	"github.com/gin-gonic/gin"

	"qrattend/internal/auth"
)

// Register attaches all v1 routes. Device endpoints are public; the rest
// require a bearer token from /v1/devices/register.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/v1/devices/register", h.RegisterDevice)
	r.POST("/v1/devices/refresh", h.RefreshDevice)

	v1 := r.Group("/v1", auth.DeviceAuth(h.cfg.JWTSigningKey, h.cfg.JWTIssuer))

	v1.POST("/scans", h.Scan)
	v1.GET("/records", h.ListRecords)
	v1.GET("/reports/today", h.TodayStats)
	v1.GET("/reports/summary.xlsx", h.ExportReport)

	v1.GET("/students", h.ListStudents)
	v1.POST("/students", h.CreateStudent)
	v1.PUT("/students/:id", h.UpdateStudent)
	v1.DELETE("/students/:id", h.DeleteStudent)
	v1.GET("/students/:id/qr.png", h.StudentQR)
	v1.GET("/students/:id/history", h.StudentHistory)

	v1.GET("/schedules", h.ListSchedules)
	v1.POST("/schedules", h.CreateSchedule)
	v1.PUT("/schedules/:id", h.UpdateSchedule)
	v1.DELETE("/schedules/:id", h.DeleteSchedule)

	v1.GET("/classes", h.ListClasses)
	v1.POST("/classes", h.CreateClass)
	v1.PUT("/classes/:id", h.RenameClass)
	v1.DELETE("/classes/:id", h.DeleteClass)
}
