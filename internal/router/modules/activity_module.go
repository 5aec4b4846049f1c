package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

type ActivityModule struct {
	Handler *handlers.ActivityHandler
	JWT     *helpers.JWTManager
}

func NewActivityModule(h *handlers.ActivityHandler, jwt *helpers.JWTManager) *ActivityModule {
	return &ActivityModule{Handler: h, JWT: jwt}
}

func (m *ActivityModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/activities", m.Handler.Record)
		auth.GET("/activities/stats", m.Handler.Stats)
	}
}
