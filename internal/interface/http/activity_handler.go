package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/pkg/response"
	"github.com/echobloom/echobloom-backend/pkg/validation"
)

type ActivityHandler struct {
	Svc    *application.ActivityService
	Logger *logrus.Logger
}

func NewActivityHandler(svc *application.ActivityService, logger *logrus.Logger) *ActivityHandler {
	return &ActivityHandler{Svc: svc, Logger: logger}
}

type recordActivityRequest struct {
	Kind            string `json:"kind" binding:"required,oneof=breathing journal gratitude grounding"`
	DurationSeconds int    `json:"duration_seconds" binding:"gte=0,lte=86400"`
	Note            string `json:"note" binding:"max=2000"`
}

func (h *ActivityHandler) Record(c *gin.Context) {
	var req recordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	a, err := h.Svc.Record(c.Request.Context(), c.GetString("userID"), req.Kind, req.DurationSeconds, req.Note)
	if errors.Is(err, application.ErrUnknownActivityKind) {
		response.Error(c, http.StatusBadRequest, "unknown activity kind", nil)
		return
	}
	if err != nil {
		h.Logger.WithError(err).Error("activity record failed")
		response.Error(c, http.StatusInternalServerError, "could not record activity", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"id":               a.ID,
		"kind":             a.Kind,
		"duration_seconds": a.DurationSeconds,
		"note":             a.Note,
		"completed_at":     a.CompletedAt,
	}, "activity recorded", nil)
}

func (h *ActivityHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("activity stats failed")
		response.Error(c, http.StatusInternalServerError, "could not load activity stats", nil)
		return
	}
	response.Success(c, http.StatusOK, stats, "activity stats", nil)
}
