package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"interntrack/internal/activity"
	"interntrack/internal/config"
	"interntrack/internal/queue"
	"interntrack/internal/store"
)

// Worker consumes activity events from Redis and keeps per-day counters.
func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.QueueBackend != "redis" {
		log.Fatalf("worker needs QUEUE_BACKEND=redis, got %q", cfg.QueueBackend)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	if !redisClient.Healthy(pingCtx) {
		log.Printf("WARNING: redis not reachable at %s, will keep retrying", cfg.RedisAddr)
	}
	cancel()

	q := queue.NewRedisQueue(redisClient.Client, "")
	rec := activity.NewRecorder(activity.NewRedisCounter(redisClient.Client, 30*24*time.Hour))

	log.Println("worker started, waiting for messages...")
	if err := rec.Run(ctx, q); err != nil {
		log.Fatalf("worker failed: %v", err)
	}
	log.Println("worker stopped")
}
