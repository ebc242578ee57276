package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/container"
	handlers "github.com/vidtube/backend/internal/interface/http"
	"github.com/vidtube/backend/internal/interface/middleware"
	"github.com/vidtube/backend/pkg/helpers"
)

// UserModule wires account, session, channel and subscription routes.
// Public: POST /users/register, /users/login, /users/refresh-token
// Protected: everything else under /users plus the subscription toggle.
type UserModule struct {
	Handler *handlers.UserHandler
	Users   middleware.UserResolver
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, users middleware.UserResolver, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP())

	users := rg.Group("/users")
	users.POST("/register", registerLimiter, m.Handler.Register)
	users.POST("/login", loginLimiter, m.Handler.Login)
	users.POST("/refresh-token", refreshLimiter, m.Handler.Refresh)

	// The channel page is public but personalizes isSubscribed for a
	// signed-in viewer.
	users.GET("/channel/:username", middleware.OptionalAuth(m.Users, m.JWT), m.Handler.Channel)

	auth := users.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.POST("/change-password", m.Handler.ChangePassword)
		auth.GET("/current-user", m.Handler.CurrentUser)
		auth.PATCH("/update-account", m.Handler.UpdateAccount)
		auth.PATCH("/avatar", m.Handler.UpdateAvatar)
		auth.PATCH("/cover-image", m.Handler.UpdateCoverImage)
		auth.GET("/watch-history", m.Handler.WatchHistory)
	}

	subs := rg.Group("/subscriptions")
	subs.Use(middleware.Auth(m.Users, m.JWT))
	subs.POST("/channel/:channelId", m.Handler.ToggleSubscription)
}
