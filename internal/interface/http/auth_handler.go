package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/echobloom/echobloom-backend/internal/application"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
	"github.com/echobloom/echobloom-backend/pkg/response"
	"github.com/echobloom/echobloom-backend/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type preferencesRequest struct {
	Preferences map[string]any `json:"preferences" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if errors.Is(err, application.ErrEmailTaken) {
		response.Error(c, http.StatusConflict, "email already registered", nil)
		return
	}
	if err != nil {
		h.Logger.WithError(err).Error("register failed")
		response.Error(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
	}, "welcome to the garden", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	h.Cookies.SetPair(c, pair.Access, pair.AccessExp, pair.Refresh, pair.RefreshExp)
	response.Success(c, http.StatusOK, gin.H{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
	}, "login successful", map[string]any{
		"access_expires_at":  pair.AccessExp,
		"refresh_expires_at": pair.RefreshExp,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	h.Cookies.SetPair(c, pair.Access, pair.AccessExp, pair.Refresh, pair.RefreshExp)
	response.Success(c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessExp,
		"refresh_expires_at": pair.RefreshExp,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := c.GetString("sessionID"); sid != "" {
		if err := h.Svc.Logout(c.Request.Context(), sid); err != nil {
			h.Logger.WithError(err).Warn("session delete failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString("userID")
	u, p, err := h.Svc.Me(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"profile": gin.H{
			"total_echoes":         p.TotalEchoes,
			"current_streak":       p.CurrentStreak,
			"longest_streak":       p.LongestStreak,
			"mood_average":         p.MoodAverage,
			"wellness_score":       p.WellnessScore,
			"achievements":         p.Achievements,
			"weekly_active_days":   p.WeeklyActiveDays,
			"monthly_reflections":  p.MonthlyReflections,
			"gratitude_count":      p.GratitudeCount,
			"ritual_preferences":   p.RitualPreferences,
			"mood_trend_direction": p.MoodTrendDirection,
			"last_active":          p.LastActive,
		},
	}, "profile", nil)
}

func (h *AuthHandler) UpdatePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	if err := h.Svc.UpdatePreferences(c.Request.Context(), uid, req.Preferences); err != nil {
		h.Logger.WithError(err).Error("preferences update failed")
		response.Error(c, http.StatusInternalServerError, "preferences update failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true}, "preferences updated", nil)
}
