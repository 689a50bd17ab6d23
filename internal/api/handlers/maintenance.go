package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/elecmate/maintenance-planner/internal/middleware"
	"github.com/elecmate/maintenance-planner/internal/models"
	"github.com/elecmate/maintenance-planner/internal/planner"
	"github.com/elecmate/maintenance-planner/internal/services"
	"github.com/elecmate/maintenance-planner/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PlanService is the orchestration the handlers drive.
type PlanService interface {
	GeneratePlan(ctx context.Context, requestID string, req *models.MaintenanceRequest) (*models.PlanResponse, error)
	GetGeneration(requestID string) (*models.GenerationRecord, error)
	RecentGenerations(limit int) ([]models.GenerationRecord, error)
	TierStats(from, to time.Time) ([]models.TierStats, error)
}

type MaintenanceHandler struct {
	service PlanService
	logger  *logrus.Logger
}

func NewMaintenanceHandler(service PlanService, logger *logrus.Logger) *MaintenanceHandler {
	return &MaintenanceHandler{
		service: service,
		logger:  logger,
	}
}

// Caller-facing messages per failure code. Internal detail stays in the logs.
var failureMessages = map[string]string{
	planner.CodeGenerationUnavailable: "Maintenance plan generation is temporarily unavailable",
	planner.CodeSchemaViolation:       "The AI model did not return a structured maintenance plan",
	planner.CodeMalformedGeneration:   "The AI model returned a malformed maintenance plan",
	planner.CodeInvalidAIResponse:     "Invalid AI response format",
	planner.CodeInternal:              "Failed to generate maintenance plan",
}

// HandleGeneratePlan processes maintenance plan requests
func (h *MaintenanceHandler) HandleGeneratePlan(c *gin.Context) {
	var req models.MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid plan request")
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, "Invalid request format", planner.CodeInvalidRequest, err)
		return
	}

	requestID := c.GetString(middleware.RequestIDKey)
	if requestID == "" {
		requestID = utils.NewRequestID()
	}

	h.logger.WithFields(logrus.Fields{
		"request_id":       requestID,
		"equipment_type":   req.EquipmentType,
		"maintenance_type": req.MaintenanceType,
		"detail_level":     req.Detail(),
	}).Info("Processing maintenance plan request")

	resp, err := h.service.GeneratePlan(c.Request.Context(), requestID, &req)
	if err != nil {
		h.writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MaintenanceHandler) writeFailure(c *gin.Context, err error) {
	code := planner.ErrorCode(err)
	if code == planner.CodeInvalidRequest {
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, err.Error(), code, nil)
		return
	}
	utils.ErrorResponseWithCode(c, http.StatusInternalServerError, failureMessages[code], code, nil)
}

// HandleGetGeneration returns the trace record of one request
func (h *MaintenanceHandler) HandleGetGeneration(c *gin.Context) {
	requestID := c.Param("requestId")
	if !utils.ValidRequestID(requestID) {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	record, err := h.service.GetGeneration(requestID)
	switch {
	case errors.Is(err, services.ErrGenerationNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Generation not found", nil)
		return
	case errors.Is(err, services.ErrTracingDisabled):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Generation tracing is disabled", nil)
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to load generation record")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load generation", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Generation retrieved", record)
}

// HandleListGenerations returns the most recent trace records
func (h *MaintenanceHandler) HandleListGenerations(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		utils.ErrorResponse(c, http.StatusBadRequest, "limit must be a positive integer", nil)
		return
	}
	if limit > 100 {
		limit = 100
	}

	records, err := h.service.RecentGenerations(limit)
	if errors.Is(err, services.ErrTracingDisabled) {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Generation tracing is disabled", nil)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to list generation records")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list generations", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Generations retrieved", records)
}

// HandleTierStats aggregates recent generations per retrieval tier
func (h *MaintenanceHandler) HandleTierStats(c *gin.Context) {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours < 1 || hours > 24*90 {
		utils.ErrorResponse(c, http.StatusBadRequest, "hours must be between 1 and 2160", nil)
		return
	}

	to := time.Now()
	stats, err := h.service.TierStats(to.Add(-time.Duration(hours)*time.Hour), to)
	if errors.Is(err, services.ErrTracingDisabled) {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Generation tracing is disabled", nil)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to aggregate tier stats")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to aggregate stats", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tier stats retrieved", stats)
}
