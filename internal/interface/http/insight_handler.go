package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/pkg/response"
)

type InsightHandler struct {
	Svc    *application.InsightService
	Logger *logrus.Logger
}

func NewInsightHandler(svc *application.InsightService, logger *logrus.Logger) *InsightHandler {
	return &InsightHandler{Svc: svc, Logger: logger}
}

func (h *InsightHandler) Overview(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	overview, err := h.Svc.Overview(c.Request.Context(), c.GetString("userID"), days)
	if err != nil {
		h.Logger.WithError(err).Error("insight overview failed")
		response.Error(c, http.StatusInternalServerError, "could not compute insights", nil)
		return
	}
	response.Success(c, http.StatusOK, overview, "insight overview", nil)
}
