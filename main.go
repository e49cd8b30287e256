package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Webys-org/prezentic/backend/demo-services/handlers"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/config"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/database"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/exports"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/identity"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/kvstore"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation/service"
	"github.com/Webys-org/prezentic/backend/demo-services/internal/presentation/store"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/logger"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/metrics"
	"github.com/Webys-org/prezentic/backend/demo-services/pkg/middleware"
)

var startTime = time.Now()

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: backend=%s redis=%v mongo=%v minio=%v",
		cfg.Storage.Backend, cfg.Redis.Host != "", cfg.MongoDB.URI != "", cfg.MinIO.Endpoint != "")

	r := gin.New()

	// Lightweight CORS for the dashboard dev server.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.DemoIdentityMiddleware())

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		}
	}

	kv := openStore(ctx, cfg, redisClient)

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	meta := store.NewMetadataStore(kv)
	docs := store.NewDocumentStore(kv)
	ident := identity.NewResolver(kv, cfg.Demo.DefaultOwnerID)
	svc := service.NewService(meta, docs, ident, cfg.Demo.ShareBaseURL)

	var publisher *exports.Publisher
	if cfg.MinIO.Endpoint != "" {
		publisher, err = exports.NewPublisher(&cfg.MinIO)
		if err != nil {
			logger.Warnf("export publisher unavailable: %v", err)
			publisher = nil
		}
	}

	handlers.RegisterRoutes(r, &handlers.API{
		Svc:       svc,
		Docs:      docs,
		Ident:     ident,
		KV:        kv,
		Publisher: publisher,
	})
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{"storage": true, "exports": publisher != nil}
		// probe the backing store; memory never fails, redis/mongo might
		if _, _, err := kv.Get(c.Request.Context(), store.MetadataKey); err != nil {
			deps["storage"] = false
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "deps": deps})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting demo service on %s (backend=%s)", addr, cfg.Storage.Backend)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// openStore picks the key-value backend per config, falling back to memory
// when the configured backend is unavailable. Demo data is disposable, so a
// degraded start beats no start.
func openStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) kvstore.Store {
	switch cfg.Storage.Backend {
	case "redis":
		if redisClient != nil {
			logger.Infof("using Redis demo storage (prefix=%s)", cfg.Storage.KeyPrefix)
			return kvstore.NewRedis(redisClient, cfg.Storage.KeyPrefix)
		}
		logger.Warnf("redis backend requested but unavailable, falling back to memory")

	case "mongo":
		if cfg.MongoDB.URI != "" {
			// tolerate startup races against the database container
			const maxAttempts = 5
			backoff := time.Second
			for attempt := 1; attempt <= maxAttempts; attempt++ {
				client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
				if err == nil {
					col := client.Database(cfg.MongoDB.Database).Collection("demo_kv")
					logger.Infof("using MongoDB demo storage (db=%s)", cfg.MongoDB.Database)
					return kvstore.NewMongo(col)
				}
				logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
				if attempt < maxAttempts {
					time.Sleep(backoff)
					backoff *= 2
				}
			}
		}
		logger.Warnf("mongo backend requested but unavailable, falling back to memory")
	}
	logger.Infof("using in-memory demo storage")
	return kvstore.NewMemory()
}
