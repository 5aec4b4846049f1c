package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/pkg/response"
	"github.com/echobloom/echobloom-backend/pkg/validation"
)

type AlchemyHandler struct {
	Svc    *application.AlchemyService
	Logger *logrus.Logger
}

func NewAlchemyHandler(svc *application.AlchemyService, logger *logrus.Logger) *AlchemyHandler {
	return &AlchemyHandler{Svc: svc, Logger: logger}
}

type fuseRequest struct {
	Emotion1 string `json:"emotion1" binding:"required,max=50"`
	Emotion2 string `json:"emotion2" binding:"required,max=50"`
}

func (h *AlchemyHandler) Fuse(c *gin.Context) {
	var req fuseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	fusion, err := h.Svc.Fuse(c.Request.Context(), c.GetString("userID"), req.Emotion1, req.Emotion2)
	if err != nil {
		h.Logger.WithError(err).Error("emotion fusion failed")
		response.Error(c, http.StatusInternalServerError, "emotion fusion failed", nil)
		return
	}
	response.Success(c, http.StatusOK, fusion, "emotion fusion", nil)
}

func (h *AlchemyHandler) Palette(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"emotions":   application.EmotionPalette,
		"total":      len(application.EmotionPalette),
		"philosophy": "Emotions rarely exist in isolation. The alchemy lab lets you explore how they combine, conflict, and create new emotional realities.",
	}, "emotion palette", nil)
}

func (h *AlchemyHandler) SuggestedPairs(c *gin.Context) {
	pairs, basedOn, err := h.Svc.SuggestedPairs(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.Logger.WithError(err).Error("suggested pairs failed")
		response.Error(c, http.StatusInternalServerError, "could not suggest pairs", nil)
		return
	}
	if len(pairs) == 0 {
		response.Success(c, http.StatusOK, gin.H{
			"suggested_pairs": pairs,
			"message":         "Plant some echoes to get personalized suggestions",
		}, "suggested pairs", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"suggested_pairs":   pairs,
		"based_on_emotions": basedOn,
		"message":           "These pairings might resonate with your recent experiences",
	}, "suggested pairs", nil)
}

func (h *AlchemyHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	fusions, err := h.Svc.History(c.Request.Context(), c.GetString("userID"), limit)
	if err != nil {
		h.Logger.WithError(err).Error("fusion history failed")
		response.Error(c, http.StatusInternalServerError, "could not load fusion history", nil)
		return
	}

	items := make([]gin.H, 0, len(fusions))
	for _, f := range fusions {
		items = append(items, gin.H{
			"id":         f.ID,
			"emotion_a":  f.EmotionA,
			"emotion_b":  f.EmotionB,
			"result":     f.Result,
			"created_at": f.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, gin.H{"fusions": items, "total": len(items)}, "fusion history", nil)
}
