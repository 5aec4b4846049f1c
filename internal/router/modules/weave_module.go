package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

type WeaveModule struct {
	Handler *handlers.WeaveHandler
	JWT     *helpers.JWTManager
}

func NewWeaveModule(h *handlers.WeaveHandler, jwt *helpers.JWTManager) *WeaveModule {
	return &WeaveModule{Handler: h, JWT: jwt}
}

func (m *WeaveModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/weave/tale", m.Handler.CreateTale)
		auth.GET("/weave/preview", m.Handler.PreviewData)
		auth.POST("/weave/affirmation", m.Handler.CreateAffirmation)
		auth.GET("/weave/vault", m.Handler.Vault)
		auth.GET("/weave/check", m.Handler.CheckForAffirmation)
	}
}
