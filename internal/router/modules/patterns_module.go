package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	handlers "github.com/echobloom/echobloom-backend/internal/interface/http"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
	"github.com/echobloom/echobloom-backend/pkg/helpers"
)

// PatternsModule exposes the challenging-day forecast. Predictions run the
// LLM per challenging day, so the limiter is tighter than the read routes.

type PatternsModule struct {
	Handler *handlers.PatternsHandler
	JWT     *helpers.JWTManager
}

func NewPatternsModule(h *handlers.PatternsHandler, jwt *helpers.JWTManager) *PatternsModule {
	return &PatternsModule{Handler: h, JWT: jwt}
}

func (m *PatternsModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/patterns/predict", m.Handler.Predict)
		auth.GET("/patterns/dawn-drawer", m.Handler.DawnDrawer)
	}
}
