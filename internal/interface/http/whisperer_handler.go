package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/pkg/response"
)

type WhispererHandler struct {
	Svc    *application.WhispererService
	Logger *logrus.Logger
}

func NewWhispererHandler(svc *application.WhispererService, logger *logrus.Logger) *WhispererHandler {
	return &WhispererHandler{Svc: svc, Logger: logger}
}

func (h *WhispererHandler) CheckPatterns(c *gin.Context) {
	check, err := h.Svc.CheckPatterns(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("whisperer check failed")
		response.Error(c, http.StatusInternalServerError, "whisperer check failed", nil)
		return
	}
	response.Success(c, http.StatusOK, check, "whisperer check", nil)
}

func (h *WhispererHandler) MoodFoodBasket(c *gin.Context) {
	basket, generated, err := h.Svc.MoodFoodBasket(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("mood food basket failed")
		response.Error(c, http.StatusInternalServerError, "could not build food basket", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"basket":    basket,
		"generated": generated,
		"timestamp": time.Now().UTC(),
	}, "mood food basket", nil)
}
