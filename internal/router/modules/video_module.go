package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/container"
	handlers "github.com/vidtube/backend/internal/interface/http"
	"github.com/vidtube/backend/internal/interface/middleware"
	"github.com/vidtube/backend/pkg/helpers"
)

// VideoModule wires the discovery feed and the owner-scoped mutations.
type VideoModule struct {
	Handler *handlers.VideoHandler
	Users   middleware.UserResolver
	JWT     *helpers.JWTManager
}

func NewVideoModule(h *handlers.VideoHandler, users middleware.UserResolver, jwt *helpers.JWTManager) *VideoModule {
	return &VideoModule{Handler: h, Users: users, JWT: jwt}
}

func (m *VideoModule) Register(rg *gin.RouterGroup) {
	videos := rg.Group("/videos")

	// Reads are public; a signed-in viewer unlocks their own unpublished
	// videos and gets watch history recorded.
	optional := middleware.OptionalAuth(m.Users, m.JWT)
	videos.GET("", optional, m.Handler.List)
	videos.GET("/:videoId", optional, m.Handler.Get)

	auth := videos.Group("")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("", m.Handler.Publish)
		auth.PATCH("/:videoId", m.Handler.Update)
		auth.DELETE("/:videoId", m.Handler.Delete)
		auth.PATCH("/toggle/publish/:videoId", m.Handler.TogglePublish)
	}
}
