package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"interntrack/internal/activity"
	"interntrack/internal/config"
	"interntrack/internal/handler"
	"interntrack/internal/httpmiddleware"
	"interntrack/internal/queue"
	"interntrack/internal/records"
	"interntrack/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	svc := records.NewService(repo, cfg.StoreTimeout)

	var redisClient *store.Redis
	if cfg.QueueBackend == "redis" || cfg.RateLimitBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
	}

	var q queue.Queue
	switch cfg.QueueBackend {
	case "redis":
		q = queue.NewRedisQueue(redisClient.Client, "")
	case "memory":
		mem := queue.NewInMemory(64)
		q = mem
		// no separate worker can reach an in-process queue, so drain it here
		go func() {
			if err := activity.NewRecorder(nil).Run(ctx, mem); err != nil {
				log.Printf("activity recorder stopped: %v", err)
			}
		}()
	case "off":
	default:
		return fmt.Errorf("unknown QUEUE_BACKEND %q", cfg.QueueBackend)
	}

	var redisConn *redis.Client
	if redisClient != nil {
		redisConn = redisClient.Client
	}
	limiter, err := httpmiddleware.NewLimiter(cfg.RateLimitBackend, cfg.RateLimitPerMin, redisConn)
	if err != nil {
		return err
	}

	var redisHealth handler.HealthCheck
	if redisClient != nil {
		redisHealth = redisClient.Healthy
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.CORS())
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.RateLimit(limiter))

	feed := activity.NewPublisher(q)
	defer feed.Close()
	handler.New(svc, feed, redisHealth).Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s (store=%s queue=%s)", cfg.HTTPPort, cfg.StoreBackend, cfg.QueueBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// openRepository connects the configured store. The returned func releases it.
func openRepository(ctx context.Context, cfg config.App) (records.Repository, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.StoreBackend {
	case "mongo":
		m, err := store.NewMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Connected to MongoDB database %q", cfg.MongoDatabase)
		return records.NewMongoRepository(m), func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = m.Close(closeCtx)
		}, nil
	case "postgres":
		db, err := store.NewDB(connectCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Connected to Postgres")
		return records.NewPostgresRepository(db.Client), func() { _ = db.Close() }, nil
	case "memory":
		log.Println("Using in-memory store; records are lost on exit")
		return records.NewMemoryRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
