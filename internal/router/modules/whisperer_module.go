package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

type WhispererModule struct {
	Handler *handlers.WhispererHandler
	JWT     *helpers.JWTManager
}

func NewWhispererModule(h *handlers.WhispererHandler, jwt *helpers.JWTManager) *WhispererModule {
	return &WhispererModule{Handler: h, JWT: jwt}
}

func (m *WhispererModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/whisperer/check", m.Handler.CheckPatterns)
		auth.GET("/whisperer/food-basket", m.Handler.MoodFoodBasket)
	}
}
