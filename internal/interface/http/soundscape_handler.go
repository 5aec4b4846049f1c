package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/pkg/response"
)

type SoundscapeHandler struct {
	Svc    *application.SoundscapeService
	Logger *logrus.Logger
}

func NewSoundscapeHandler(svc *application.SoundscapeService, logger *logrus.Logger) *SoundscapeHandler {
	return &SoundscapeHandler{Svc: svc, Logger: logger}
}

func (h *SoundscapeHandler) Generate(c *gin.Context) {
	includeRecent, _ := strconv.Atoi(c.DefaultQuery("include_recent_echoes", "5"))
	result, err := h.Svc.Generate(c.Request.Context(), c.GetString("userID"), includeRecent)
	if errors.Is(err, application.ErrNoEchoes) {
		response.Error(c, http.StatusBadRequest, "No echoes found. Plant your first echo to generate a soundscape.", nil)
		return
	}
	if err != nil {
		h.Logger.WithError(err).Error("soundscape generation failed")
		response.Error(c, http.StatusInternalServerError, "failed to generate soundscape", nil)
		return
	}
	response.Success(c, http.StatusOK, result, result.Message, nil)
}

func (h *SoundscapeHandler) Presets(c *gin.Context) {
	presets := h.Svc.Presets()
	response.Success(c, http.StatusOK, gin.H{
		"presets": presets,
		"total":   len(presets),
	}, "Explore these curated soundscapes designed for different emotional states", nil)
}

func (h *SoundscapeHandler) CurrentMood(c *gin.Context) {
	mood, err := h.Svc.CurrentMood(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("current mood fetch failed")
		response.Error(c, http.StatusInternalServerError, "could not read current mood", nil)
		return
	}
	response.Success(c, http.StatusOK, mood, "current mood", nil)
}
