package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

// EchoModule registers the garden routes. Planting is limited harder than
// reading so a stuck client cannot flood the analysis queue.

type EchoModule struct {
	Handler *handlers.EchoHandler
	JWT     *helpers.JWTManager
}

func NewEchoModule(h *handlers.EchoHandler, jwt *helpers.JWTManager) *EchoModule {
	return &EchoModule{Handler: h, JWT: jwt}
}

func (m *EchoModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))

	plantLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)
	{
		auth.POST("/echoes", plantLimiter, m.Handler.Plant)
		auth.POST("/echoes/voice", plantLimiter, m.Handler.PlantVoice)
		auth.GET("/echoes", m.Handler.Garden)
		auth.GET("/echoes/search", m.Handler.SearchSeeds)
		auth.GET("/echoes/:id", m.Handler.Get)
	}
}
