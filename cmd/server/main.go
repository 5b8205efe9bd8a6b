package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogapi/internal/config"
	"github.com/blogapi/internal/db"
	"github.com/blogapi/internal/handler"
	"github.com/blogapi/internal/router"
	"github.com/blogapi/internal/search"
	"github.com/blogapi/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[BOOT] invalid configuration: %v", err)
	}
	if !cfg.SessionsEnabled() {
		log.Printf("[BOOT] SESSION_SECRET not set, cookie sessions disabled")
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.LogLevel,
	}); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureUser(db.DB, cfg.SuperRootName, cfg.SuperRootEmail, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure super root user: %v", err)
	}

	opts := handler.Options{
		OwnerOnly: cfg.PostOwnerOnly,
		PageSize:  cfg.DefaultPageSize,
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatalf("failed to reach redis at %s: %v", cfg.Redis.Addr, err)
		}
		opts.Tokens = service.NewRedisTokenStore(redisClient, cfg.TokenTTL)
		log.Printf("[BOOT] access tokens stored in redis %s", cfg.Redis.Addr)
	} else {
		opts.Tokens = service.NewDBTokenStore(db.DB, cfg.TokenTTL)
	}

	if cfg.Elasticsearch.Enabled() {
		if es := connectElastic(cfg.Elasticsearch); es != nil {
			opts.Indexer = es
		}
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg, handler.NewAPI(db.DB, opts))

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[BOOT] HTTP server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[BOOT] shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[BOOT] server shutdown error: %v", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("[BOOT] server gracefully stopped")
}

// connectElastic 返回 nil 时搜索回退到 SQL LIKE。
func connectElastic(cfg config.ElasticsearchConfig) *search.Elastic {
	es, err := search.NewElastic(cfg)
	if err != nil {
		log.Printf("[SEARCH] elasticsearch disabled: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := es.EnsureIndex(ctx); err != nil {
		log.Printf("[SEARCH] elasticsearch disabled, index %s unavailable: %v", es.Index, err)
		return nil
	}
	log.Printf("[SEARCH] mirroring posts to %s/%s", cfg.Addr, es.Index)
	return es
}
