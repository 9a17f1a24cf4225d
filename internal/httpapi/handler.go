// Package httpapi exposes the attendance service over HTTP.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"qrattend/internal/attendance"
	"qrattend/internal/auth"
	"qrattend/internal/config"
	"qrattend/internal/engine"
	"qrattend/internal/metrics"
	"qrattend/internal/report"
	"qrattend/internal/roster"
	"qrattend/internal/schedule"
	"qrattend/internal/store"
)

// Handler carries the wired collaborators for all routes.
type Handler struct {
	cfg       config.App
	scans     *attendance.Service
	records   *attendance.Repository
	rosters   *roster.Repository
	schedules *schedule.Repository
	devices   *auth.DeviceRepository
	rdb       *store.Redis
}

// New builds a handler set.
func New(cfg config.App, scans *attendance.Service, records *attendance.Repository,
	rosters *roster.Repository, schedules *schedule.Repository,
	devices *auth.DeviceRepository, rdb *store.Redis) *Handler {
	return &Handler{
		cfg:       cfg,
		scans:     scans,
		records:   records,
		rosters:   rosters,
		schedules: schedules,
		devices:   devices,
		rdb:       rdb,
	}
}

// ---------- Devices ----------

type deviceRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
}

func (h *Handler) RegisterDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.devices.UpsertDevice(c.Request.Context(), req.DeviceID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := auth.Issue(req.DeviceID, "device", h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	if err := h.devices.SaveRefreshToken(c.Request.Context(), req.DeviceID, tokens.RefreshToken, tokens.RefreshExp); err != nil {
		log.Warn().Err(err).Str("device_id", req.DeviceID).Msg("refresh token save failed")
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *Handler) RefreshDevice(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := auth.Parse(req.RefreshToken, h.cfg.JWTSigningKey, h.cfg.JWTIssuer)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	ok, err := h.devices.RefreshTokenValid(c.Request.Context(), claims.Subject, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "refresh token revoked or expired"})
		return
	}

	tokens, err := auth.Issue(claims.Subject, claims.Role, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	if err := h.devices.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
		log.Warn().Err(err).Msg("refresh token revoke failed")
	}
	if err := h.devices.SaveRefreshToken(c.Request.Context(), claims.Subject, tokens.RefreshToken, tokens.RefreshExp); err != nil {
		log.Warn().Err(err).Str("device_id", claims.Subject).Msg("refresh token save failed")
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
	})
}

// ---------- Scans ----------

type scanRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// Scan processes one decoded QR payload. The device is locked out for a
// short cooldown after every attempt so a scanner held against a code does
// not hammer the engine; a plain validation error uses the shorter window.
func (h *Handler) Scan(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := auth.DeviceID(c)

	if h.rdb != nil {
		armed, err := h.rdb.BeginCooldown(ctx, deviceID, h.cfg.ScanCooldown)
		if err != nil {
			log.Warn().Err(err).Msg("cooldown check failed, continuing")
		} else if !armed {
			metrics.ScanAttempts.WithLabelValues("cooldown").Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "scanner cooling down"})
			return
		}
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.armCooldown(c, deviceID, h.cfg.BadScanCooldown)
		metrics.ScanAttempts.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload required"})
		return
	}

	rec, err := h.scans.Scan(ctx, req.Payload, time.Now())
	h.armCooldown(c, deviceID, h.cfg.ScanCooldown)
	if err != nil {
		h.rejectScan(c, err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) armCooldown(c *gin.Context, deviceID string, d time.Duration) {
	if h.rdb == nil {
		return
	}
	if err := h.rdb.ExtendCooldown(c.Request.Context(), deviceID, d); err != nil {
		log.Warn().Err(err).Msg("cooldown arm failed")
	}
}

// rejectScan maps engine rejections onto HTTP statuses. Every rejection is
// an expected outcome carrying enough detail for operator feedback.
func (h *Handler) rejectScan(c *gin.Context, err error) {
	var dup *engine.DuplicateError
	switch {
	case errors.Is(err, engine.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
	case errors.Is(err, engine.ErrNoScheduleConfigured):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no schedule configured"})
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{"error": dup.Error(), "student_name": dup.StudentName})
	default:
		log.Error().Err(err).Msg("scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scan failed"})
	}
}

// ---------- Records & reports ----------

func (h *Handler) ListRecords(c *gin.Context) {
	limit, offset := 50, 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	records, err := h.records.List(c.Request.Context(), c.Query("date"), c.Query("student_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (h *Handler) TodayStats(c *gin.Context) {
	ctx := c.Request.Context()
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	records, err := h.records.ListByDate(ctx, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	students, err := h.rosters.ListStudents(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "stats": report.DailyStats(records, len(students))})
}

func (h *Handler) ExportReport(c *gin.Context) {
	ctx := c.Request.Context()
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	records, err := h.records.List(ctx, "", "", 100000, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	students, err := h.rosters.ListStudents(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	f, err := report.Excel(date, records, students)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report build failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename(date)+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("report write failed")
	}
}

// ---------- Students ----------

func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.rosters.ListStudents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

type studentRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Class       string `json:"class" binding:"required"`
	DateOfBirth string `json:"date_of_birth"`
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.rosters.CreateStudent(c.Request.Context(), roster.Student{
		Code: req.Code, Name: req.Name, Class: req.Class, DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.rosters.UpdateStudent(c.Request.Context(), roster.Student{
		ID: c.Param("id"), Code: req.Code, Name: req.Name, Class: req.Class, DateOfBirth: req.DateOfBirth,
	})
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	err := h.rosters.DeleteStudent(c.Request.Context(), c.Param("id"))
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) StudentQR(c *gin.Context) {
	s, err := h.rosters.GetStudent(c.Request.Context(), c.Param("id"))
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	size := 256
	if v := c.Query("size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 2048 {
			size = parsed
		}
	}
	png, err := roster.QRPNG(s, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr render failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) StudentHistory(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.rosters.GetStudent(c.Request.Context(), id); errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	history, err := h.records.ListHistory(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// ---------- Schedules ----------

func (h *Handler) ListSchedules(c *gin.Context) {
	schedules, err := h.schedules.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedules": schedules})
}

type scheduleRequest struct {
	Label        string `json:"label" binding:"required"`
	StartTime    string `json:"start_time" binding:"required"`
	GraceMinutes int    `json:"grace_minutes"`
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.schedules.Create(c.Request.Context(), schedule.Schedule{
		Label: req.Label, StartTime: req.StartTime, GraceMinutes: req.GraceMinutes,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) UpdateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := schedule.Schedule{
		ID: c.Param("id"), Label: req.Label, StartTime: req.StartTime, GraceMinutes: req.GraceMinutes,
	}
	err := h.schedules.Update(c.Request.Context(), s)
	if errors.Is(err, schedule.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	err := h.schedules.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, schedule.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- Classes ----------

func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.rosters.ListClasses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

type classRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreateClass(c *gin.Context) {
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cls, err := h.rosters.CreateClass(c.Request.Context(), roster.Class{Name: req.Name})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cls)
}

// RenameClass cascades the new name into every member student and
// regenerates their canonical payloads.
func (h *Handler) RenameClass(c *gin.Context) {
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.rosters.RenameClass(c.Request.Context(), c.Param("id"), req.Name)
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteClass(c *gin.Context) {
	err := h.rosters.DeleteClass(c.Request.Context(), c.Param("id"))
	if errors.Is(err, roster.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
