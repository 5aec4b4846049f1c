package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/echobloom/echobloom-backend/internal/container"
	"github.com/echobloom/echobloom-backend/internal/interface/middleware"
)

type DebugModule struct{}

func NewDebugModule() *DebugModule { return &DebugModule{} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar), rate-limited per IP. Internal
	// addresses skip the limit so local scrapes stay cheap.
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
