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

	"github.com/LJTian/LunchHub/internal/api"
	"github.com/LJTian/LunchHub/internal/collector"
	"github.com/LJTian/LunchHub/internal/config"
	"github.com/LJTian/LunchHub/internal/notify"
	"github.com/LJTian/LunchHub/internal/processor"
	"github.com/LJTian/LunchHub/internal/scheduler"
	"github.com/LJTian/LunchHub/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logFile := config.SetupLogging(cfg.LogDir)
	defer logFile.Close()

	fetchers, err := collector.Build(cfg.Sources, collector.NewTesseractOCR())
	if err != nil {
		log.Fatalf("init fetchers failed: %v", err)
	}

	senders, err := notify.FromConfig(cfg)
	if err != nil {
		log.Fatalf("init senders failed: %v", err)
	}

	job := &scheduler.Job{
		Fetchers:   fetchers,
		Aggregator: processor.NewAggregator(),
		Sender:     senders,
	}

	// Redis 可选：未配置时不做当天去重，也不缓存接口结果
	var cache api.MenuCache
	if cfg.RedisAddr != "" {
		store, err := storage.NewStore(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("init store failed: %v", err)
		}
		defer store.Close()
		job.Ledger = store
		cache = store
	}

	spec, err := cfg.Schedule()
	if err != nil {
		log.Fatalf("invalid schedule: %v", err)
	}
	s, err := scheduler.New(spec, cfg.Location, job)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	log.Printf("lunch job scheduled: %q (%s)", spec, cfg.Location)
	s.Start()

	var srv *http.Server
	if cfg.AppPort != "" {
		gin.SetMode(gin.ReleaseMode)
		r := gin.Default()
		// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
		if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
			r.Use(api.BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPass))
		}
		api.NewServer(job, cache).RegisterRoutes(r)

		srv = &http.Server{Addr: ":" + cfg.AppPort, Handler: r}
		go func() {
			log.Printf("starting api server at %s ...", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("server exit: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}
	s.Stop()
}
