package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

type SimulateModule struct {
	Handler *handlers.SimulateHandler
	JWT     *helpers.JWTManager
}

func NewSimulateModule(h *handlers.SimulateHandler, jwt *helpers.JWTManager) *SimulateModule {
	return &SimulateModule{Handler: h, JWT: jwt}
}

func (m *SimulateModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/simulate/futures", m.Handler.Futures)
		auth.GET("/simulate/scenarios", m.Handler.SuggestedScenarios)
	}
}
