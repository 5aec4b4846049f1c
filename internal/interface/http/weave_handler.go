package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/internal/infrastructure/postgres"
	"github.com/echobloom/echobloom-backend/pkg/response"
	"github.com/echobloom/echobloom-backend/pkg/validation"
)

type WeaveHandler struct {
	Svc    *application.WeaveService
	Logger *logrus.Logger
}

func NewWeaveHandler(svc *application.WeaveService, logger *logrus.Logger) *WeaveHandler {
	return &WeaveHandler{Svc: svc, Logger: logger}
}

type createTaleRequest struct {
	Days int `json:"days" binding:"omitempty,gte=1,lte=60"`
}

type affirmationRequest struct {
	EchoID string `json:"echo_id" binding:"required,uuid"`
}

func (h *WeaveHandler) CreateTale(c *gin.Context) {
	var req createTaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	result, err := h.Svc.CreateTale(c.Request.Context(), c.GetString("userID"), req.Days)
	if err != nil {
		h.Logger.WithError(err).Error("tale creation failed")
		response.Error(c, http.StatusInternalServerError, "tale creation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, result, "whisper weave", nil)
}

func (h *WeaveHandler) PreviewData(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	data, ready, err := h.Svc.PreviewData(c.Request.Context(), c.GetString("userID"), days)
	if err != nil {
		h.Logger.WithError(err).Error("narrative preview failed")
		response.Error(c, http.StatusInternalServerError, "preview failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"ready_for_tale":    ready,
		"echo_count":        data.EchoCount,
		"narrative_preview": data,
	}, "narrative preview", nil)
}

func (h *WeaveHandler) CreateAffirmation(c *gin.Context) {
	var req affirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	result, err := h.Svc.CreateAffirmation(c.Request.Context(), c.GetString("userID"), req.EchoID)
	if errors.Is(err, postgres.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "echo not found", nil)
		return
	}
	if errors.Is(err, application.ErrForbidden) {
		response.Error(c, http.StatusForbidden, "echo belongs to another gardener", nil)
		return
	}
	if err != nil {
		h.Logger.WithError(err).Error("affirmation creation failed")
		response.Error(c, http.StatusInternalServerError, "affirmation creation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, result, "affirmation weaving", nil)
}

func (h *WeaveHandler) Vault(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.Svc.Vault(c.Request.Context(), c.GetString("userID"), limit)
	if err != nil {
		h.Logger.WithError(err).Error("vault fetch failed")
		response.Error(c, http.StatusInternalServerError, "could not load vault", nil)
		return
	}

	weavings := make([]gin.H, 0, len(items))
	for _, a := range items {
		weavings = append(weavings, gin.H{
			"id":         a.ID,
			"echo_id":    a.EchoID,
			"weaving":    a.Weaving,
			"created_at": a.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, gin.H{"affirmations": weavings, "total": len(weavings)}, "weave vault", nil)
}

func (h *WeaveHandler) CheckForAffirmation(c *gin.Context) {
	check, err := h.Svc.CheckForAffirmation(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("affirmation check failed")
		response.Error(c, http.StatusInternalServerError, "check failed", nil)
		return
	}
	response.Success(c, http.StatusOK, check, "affirmation check", nil)
}
