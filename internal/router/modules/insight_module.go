package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

type InsightModule struct {
	Handler *handlers.InsightHandler
	JWT     *helpers.JWTManager
}

func NewInsightModule(h *handlers.InsightHandler, jwt *helpers.JWTManager) *InsightModule {
	return &InsightModule{Handler: h, JWT: jwt}
}

func (m *InsightModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/insights/overview", m.Handler.Overview)
	}
}
