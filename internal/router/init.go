package router

import (
	"github.com/vidtube/backend/internal/application"
	"github.com/vidtube/backend/internal/container"
	pginfra "github.com/vidtube/backend/internal/infrastructure/postgres"
	handlers "github.com/vidtube/backend/internal/interface/http"
	"github.com/vidtube/backend/internal/router/modules"
)

// InitModules constructs repositories, services and handlers from the
// container singletons and registers every feature module. Called once at
// startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()
	jwt := container.GetJWT()

	userRepo := pginfra.NewUserRepository(pool)
	videoRepo := pginfra.NewVideoRepository(pool)
	subRepo := pginfra.NewSubscriptionRepository(pool)
	tweetRepo := pginfra.NewTweetRepository(pool)

	var mail application.EmailEnqueuer
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}
	// A nil *VideoIndex must stay a nil interface so discovery keeps its SQL
	// search stage.
	var searcher application.VideoSearcher
	if idx := container.GetVideoIndex(); idx != nil {
		searcher = idx
	}

	userSvc := application.NewUserService(userRepo, subRepo, jwt, container.GetUploader(), mail, logger, cfg.AppName)
	videoSvc := application.NewVideoService(videoRepo, userRepo, container.GetUploader(), searcher, logger)
	tweetSvc := application.NewTweetService(tweetRepo)

	userHandler := handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	videoHandler := handlers.NewVideoHandler(videoSvc, logger)
	tweetHandler := handlers.NewTweetHandler(tweetSvc)
	healthHandler := handlers.NewHealthcheckHandler(pool)

	r.Add(modules.NewHealthcheckModule(healthHandler))
	r.Add(modules.NewUserModule(userHandler, userRepo, jwt))
	r.Add(modules.NewVideoModule(videoHandler, userRepo, jwt))
	r.Add(modules.NewTweetModule(tweetHandler, userRepo, jwt))
}
