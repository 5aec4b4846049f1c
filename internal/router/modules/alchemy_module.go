package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

type AlchemyModule struct {
	Handler *handlers.AlchemyHandler
	JWT     *helpers.JWTManager
}

func NewAlchemyModule(h *handlers.AlchemyHandler, jwt *helpers.JWTManager) *AlchemyModule {
	return &AlchemyModule{Handler: h, JWT: jwt}
}

func (m *AlchemyModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))

	fuseLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)
	{
		auth.POST("/alchemy/fuse", fuseLimiter, m.Handler.Fuse)
		auth.GET("/alchemy/palette", m.Handler.Palette)
		auth.GET("/alchemy/suggested-pairs", m.Handler.SuggestedPairs)
		auth.GET("/alchemy/history", m.Handler.History)
	}
}
