// society-service/internal/controllers/cleanup_controller.go

package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/towerline/society-service/internal/dtos"
	"github.com/towerline/society-service/internal/middleware"
	"github.com/towerline/society-service/internal/services"
	"github.com/towerline/society-service/internal/utils"
)

type CleanupController struct {
	cleanupService *services.CleanupService
	validate       *validator.Validate
}

func NewCleanupController(s *services.CleanupService) *CleanupController {
	return &CleanupController{
		cleanupService: s,
		validate:       validator.New(),
	}
}

func (c *CleanupController) getAdminID(r *http.Request) (uuid.UUID, error) {
	ctxAdminID := r.Context().Value(middleware.ContextKeyUserID)
	if ctxAdminID == nil {
		return uuid.Nil, &utils.AppError{StatusCode: http.StatusUnauthorized, Code: utils.ErrCodeUnauthorized, Message: "Missing adminID in context"}
	}
	adminID, err := uuid.Parse(ctxAdminID.(string))
	if err != nil {
		return uuid.Nil, &utils.AppError{StatusCode: http.StatusBadRequest, Code: utils.ErrCodeInvalidPayload, Message: "Invalid adminID format", Err: err}
	}
	return adminID, nil
}

// GET /api/v1/cleanup/status
func (c *CleanupController) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "GetStatusHandler")
	logger.Debug("Request received")

	status, err := c.cleanupService.GetStatus(r.Context())
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, status)
}

// GET /api/v1/cleanup/export/{category}
func (c *CleanupController) ExportCategoryHandler(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	logger := utils.Logger.WithField("handler", "ExportCategoryHandler").WithField("category", category)
	logger.Info("Request received")

	if err := c.validate.Var(category, "required,oneof=bookings visitors complaints notifications notices"); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidCategory,
			fmt.Sprintf("Unknown export category %q", category), nil, err)
		return
	}

	file, err := c.cleanupService.ExportCategory(r.Context(), category)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(file.Content))
}

// GET /api/v1/cleanup/export-all
func (c *CleanupController) ExportAllHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "ExportAllHandler")
	logger.Info("Request received")

	resp, err := c.cleanupService.ExportAll(r.Context())
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/cleanup/send-email
func (c *CleanupController) SendEmailHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "SendEmailHandler")
	logger.Info("Request received")

	adminID, err := c.getAdminID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	logger = logger.WithField("adminID", adminID)

	resp, err := c.cleanupService.SendEmail(r.Context(), adminID)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.Info("Export email dispatched")
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/cleanup
func (c *CleanupController) PerformCleanupHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "PerformCleanupHandler")
	logger.Info("Request received")

	// Body is optional; absent means force=false.
	var req dtos.PerformCleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return
	}
	logger = logger.WithField("force", req.Force)

	resp, err := c.cleanupService.PerformCleanup(r.Context(), req.Force)
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	logger.Info("Cleanup completed")
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/cleanup/skip
func (c *CleanupController) SkipCleanupHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "SkipCleanupHandler")
	logger.Info("Request received")

	resp, err := c.cleanupService.SkipCleanup(r.Context())
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/cleanup/history
func (c *CleanupController) GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "GetHistoryHandler")
	logger.Debug("Request received")

	history, err := c.cleanupService.GetHistory(r.Context())
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, history)
}

// POST /api/v1/cleanup/check-reminder
func (c *CleanupController) CheckReminderHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CheckReminderHandler")
	logger.Debug("Request received")

	resp, err := c.cleanupService.CheckReminder(r.Context())
	if err != nil {
		logger.WithError(err).Error("Service call failed")
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
