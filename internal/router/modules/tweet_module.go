package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/backend/internal/container"
	handlers "github.com/vidtube/backend/internal/interface/http"
	"github.com/vidtube/backend/internal/interface/middleware"
	"github.com/vidtube/backend/pkg/helpers"
)

// TweetModule wires the community post routes.
type TweetModule struct {
	Handler *handlers.TweetHandler
	Users   middleware.UserResolver
	JWT     *helpers.JWTManager
}

func NewTweetModule(h *handlers.TweetHandler, users middleware.UserResolver, jwt *helpers.JWTManager) *TweetModule {
	return &TweetModule{Handler: h, Users: users, JWT: jwt}
}

func (m *TweetModule) Register(rg *gin.RouterGroup) {
	tweets := rg.Group("/tweets")
	tweets.GET("/user/:userId", m.Handler.ListByUser)

	auth := tweets.Group("")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("", m.Handler.Create)
		auth.PATCH("/:tweetId", m.Handler.Update)
		auth.DELETE("/:tweetId", m.Handler.Delete)
	}
}
