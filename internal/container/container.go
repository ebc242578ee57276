package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vidtube/backend/config"
	"github.com/vidtube/backend/internal/infrastructure/search"
	"github.com/vidtube/backend/pkg/helpers"
	"github.com/vidtube/backend/pkg/media"
)

// app-level container to share constructed components across packages.
// Router modules auto-wire their dependencies from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	uploader   media.Uploader
	videoIndex *search.VideoIndex
	rabbitPub  *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)               { cfg = c }
func GetConfig() *config.Config                { return cfg }
func SetLogger(l *logrus.Logger)               { logger = l }
func GetLogger() *logrus.Logger                { return logger }
func SetPGPool(p *pgxpool.Pool)                { pgPool = p }
func GetPGPool() *pgxpool.Pool                 { return pgPool }
func SetRedis(r *redis.Client)                 { redisClient = r }
func GetRedis() *redis.Client                  { return redisClient }
func SetJWT(m *helpers.JWTManager)             { jwtManager = m }
func GetJWT() *helpers.JWTManager              { return jwtManager }
func SetUploader(u media.Uploader)             { uploader = u }
func GetUploader() media.Uploader              { return uploader }
func SetVideoIndex(i *search.VideoIndex)       { videoIndex = i }
func GetVideoIndex() *search.VideoIndex        { return videoIndex }
func SetRabbitPub(p *helpers.RabbitPublisher)  { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher   { return rabbitPub }
