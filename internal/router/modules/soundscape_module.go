package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

type SoundscapeModule struct {
	Handler *handlers.SoundscapeHandler
	JWT     *helpers.JWTManager
}

func NewSoundscapeModule(h *handlers.SoundscapeHandler, jwt *helpers.JWTManager) *SoundscapeModule {
	return &SoundscapeModule{Handler: h, JWT: jwt}
}

func (m *SoundscapeModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/soundscape/generate", m.Handler.Generate)
		auth.GET("/soundscape/presets", m.Handler.Presets)
		auth.GET("/soundscape/current-mood", m.Handler.CurrentMood)
	}
}
