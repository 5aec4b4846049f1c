package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/internal/domain/entity"
	"github.com/echobloom/echobloom-backend/internal/infrastructure/postgres"
	"github.com/echobloom/echobloom-backend/pkg/response"
	"github.com/echobloom/echobloom-backend/pkg/validation"
)

// Voice uploads are capped at 10 MiB.
const maxAudioBytes = 10 << 20

type EchoHandler struct {
	Svc    *application.EchoService
	Logger *logrus.Logger
}

func NewEchoHandler(svc *application.EchoService, logger *logrus.Logger) *EchoHandler {
	return &EchoHandler{Svc: svc, Logger: logger}
}

type plantRequest struct {
	Content  string `json:"content" binding:"required,max=5000"`
	SeedType string `json:"seed_type" binding:"omitempty,oneof=random flower tree herb fern"`
}

func echoJSON(e *entity.Echo) gin.H {
	return gin.H{
		"id":               e.ID,
		"content":          e.Content,
		"audio_url":        e.AudioURL,
		"seed_type":        e.SeedType,
		"mood_score":       e.MoodScore,
		"emotion_tags":     e.EmotionTags,
		"response":         e.Response,
		"growth_stage":     e.GrowthStage,
		"analysis_pending": e.AnalysisPending,
		"created_at":       e.CreatedAt,
	}
}

func (h *EchoHandler) Plant(c *gin.Context) {
	var req plantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	echo, err := h.Svc.Plant(c.Request.Context(), c.GetString("userID"), req.Content, req.SeedType)
	if err != nil {
		h.Logger.WithError(err).Error("plant echo failed")
		response.Error(c, http.StatusInternalServerError, "could not plant echo", nil)
		return
	}
	response.Success(c, http.StatusCreated, echoJSON(echo), "echo planted", nil)
}

// PlantVoice accepts multipart form data: an "audio" file plus "transcript"
// and optional "seed_type" fields.
func (h *EchoHandler) PlantVoice(c *gin.Context) {
	transcript := c.PostForm("transcript")
	if transcript == "" {
		response.Error(c, http.StatusBadRequest, "transcript is required", nil)
		return
	}
	seedType := c.PostForm("seed_type")

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "audio file is required", nil)
		return
	}
	defer file.Close()
	if header.Size > maxAudioBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "audio file too large", nil)
		return
	}

	contentType := header.Header.Get("Content-Type")
	echo, err := h.Svc.PlantVoice(c.Request.Context(), c.GetString("userID"), transcript, seedType, contentType, file)
	if err != nil {
		h.Logger.WithError(err).Error("plant voice echo failed")
		response.Error(c, http.StatusInternalServerError, "could not plant voice echo", nil)
		return
	}
	response.Success(c, http.StatusCreated, echoJSON(echo), "voice echo planted", nil)
}

func (h *EchoHandler) Garden(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	garden, err := h.Svc.Garden(c.Request.Context(), c.GetString("userID"), limit)
	if err != nil {
		h.Logger.WithError(err).Error("garden fetch failed")
		response.Error(c, http.StatusInternalServerError, "could not load garden", nil)
		return
	}

	echoes := make([]gin.H, 0, len(garden.Echoes))
	for _, e := range garden.Echoes {
		echoes = append(echoes, echoJSON(e))
	}
	response.Success(c, http.StatusOK, gin.H{
		"echoes":          echoes,
		"plants_by_stage": garden.PlantsByType,
		"total":           garden.Total,
	}, "garden state", nil)
}

func (h *EchoHandler) Get(c *gin.Context) {
	echo, err := h.Svc.Get(c.Request.Context(), c.GetString("userID"), c.Param("id"))
	if errors.Is(err, postgres.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "echo not found", nil)
		return
	}
	if errors.Is(err, application.ErrForbidden) {
		response.Error(c, http.StatusForbidden, "echo belongs to another gardener", nil)
		return
	}
	if err != nil {
		h.Logger.WithError(err).Error("echo fetch failed")
		response.Error(c, http.StatusInternalServerError, "could not load echo", nil)
		return
	}
	response.Success(c, http.StatusOK, echoJSON(echo), "echo", nil)
}

func (h *EchoHandler) SearchSeeds(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, http.StatusBadRequest, "query parameter q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	hits, err := h.Svc.SearchSeeds(c.Request.Context(), c.GetString("userID"), query, size)
	if err != nil {
		h.Logger.WithError(err).Error("seed search failed")
		response.Error(c, http.StatusInternalServerError, "seed search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hits": hits, "total": len(hits)}, "seed search results", nil)
}
