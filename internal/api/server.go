package api

import (
	"context"

	"resourceshop/internal/app/config"
	"resourceshop/internal/app/handler"
	"resourceshop/internal/app/invoice"
	"resourceshop/internal/app/middleware"
	"resourceshop/internal/app/purchase"
	"resourceshop/internal/app/redis"
	"resourceshop/internal/app/repository"
	"resourceshop/internal/app/settings"
	"resourceshop/internal/app/storage"
	"resourceshop/internal/pkg"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// StartServer wires the store together and blocks serving HTTP.
func StartServer() {
	logrus.Info("Starting server")
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("error loading config: %v", err)
	}

	repo, err := repository.New(cfg.DSN)
	if err != nil {
		logrus.Fatalf("error initializing repository: %v", err)
	}

	var (
		blacklist middleware.Blacklist
		revoker   handler.Revoker
		cache     *goredis.Client
	)
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			logrus.Fatalf("error connecting to redis: %v", err)
		}
		defer redisClient.Close()

		blacklist = redisClient
		revoker = redisClient
		cache = redisClient.Raw()
	} else {
		logrus.Warn("REDIS_HOST is not set, settings cache and logout are disabled")
	}

	var (
		archive invoice.Archiver
		links   handler.InvoiceLinks
	)
	if cfg.MinIO.Enabled() {
		minioClient, err := storage.NewMinIOClient(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL)
		if err != nil {
			logrus.Fatalf("error connecting to minio: %v", err)
		}
		archive = minioClient
		links = minioClient
	} else {
		logrus.Warn("MINIO_ENDPOINT is not set, invoices are not archived")
	}

	settingsStore := settings.NewStore(repo, cache, cfg.Store.SettingsCacheTTL)
	shop := purchase.NewService(purchase.Deps{
		Catalog:   repo,
		Credits:   repo,
		Resources: repo,
		History:   repo,
		Invoices:  invoice.NewService(repo, archive),
		Settings:  settingsStore,
	}, purchase.Options{
		RollbackPartialGrants: cfg.Store.RollbackPartialGrants,
	})

	authMiddleware := middleware.NewAuthMiddleware(blacklist, cfg.JWT)
	apiHandler := handler.NewAPIHandler(shop, repo, settingsStore, links, handler.NewAuthHandler(revoker, authMiddleware))

	application := pkg.NewApp(cfg, gin.Default(), apiHandler, authMiddleware)
	application.RunApp()
}
