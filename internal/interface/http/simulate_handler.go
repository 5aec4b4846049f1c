package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/pkg/response"
	"github.com/echobloom/echobloom-backend/pkg/validation"
)

type SimulateHandler struct {
	Svc    *application.SimulateService
	Logger *logrus.Logger
}

func NewSimulateHandler(svc *application.SimulateService, logger *logrus.Logger) *SimulateHandler {
	return &SimulateHandler{Svc: svc, Logger: logger}
}

type simulateRequest struct {
	WhatIfScenario string `json:"what_if_scenario" binding:"required,max=500"`
	TimeframeDays  int    `json:"timeframe_days" binding:"omitempty,gte=7,lte=90"`
}

func (h *SimulateHandler) Futures(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	result, err := h.Svc.Futures(c.Request.Context(), c.GetString("userID"), req.WhatIfScenario, req.TimeframeDays)
	if err != nil {
		h.Logger.WithError(err).Error("simulation failed")
		response.Error(c, http.StatusInternalServerError, "simulation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, result, "future simulations", nil)
}

func (h *SimulateHandler) SuggestedScenarios(c *gin.Context) {
	suggestions, err := h.Svc.SuggestedScenarios(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("scenario suggestion failed")
		response.Error(c, http.StatusInternalServerError, "suggestion generation failed", nil)
		return
	}
	response.Success(c, http.StatusOK, suggestions, "suggested scenarios", nil)
}
