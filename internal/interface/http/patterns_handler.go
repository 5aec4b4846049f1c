package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/pkg/response"
)

type PatternsHandler struct {
	Svc    *application.PatternsService
	Logger *logrus.Logger
}

func NewPatternsHandler(svc *application.PatternsService, logger *logrus.Logger) *PatternsHandler {
	return &PatternsHandler{Svc: svc, Logger: logger}
}

func (h *PatternsHandler) Predict(c *gin.Context) {
	result, err := h.Svc.Predict(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("pattern prediction failed")
		response.Error(c, http.StatusInternalServerError, "prediction failed", nil)
		return
	}
	response.Success(c, http.StatusOK, result, "challenging day forecast", nil)
}

func (h *PatternsHandler) DawnDrawer(c *gin.Context) {
	alerts, message, err := h.Svc.DawnDrawer(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("dawn drawer failed")
		response.Error(c, http.StatusInternalServerError, "dawn drawer fetch failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"alerts":  alerts,
		"count":   len(alerts),
		"message": message,
	}, "dawn drawer", nil)
}
