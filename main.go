package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sephirode/realDesia/api/rest"
	"github.com/Sephirode/realDesia/api/sse"
	"github.com/Sephirode/realDesia/audit"
	"github.com/Sephirode/realDesia/cache"
	"github.com/Sephirode/realDesia/config"
	dbadapter "github.com/Sephirode/realDesia/db"
	"github.com/Sephirode/realDesia/game/item"
	"github.com/Sephirode/realDesia/game/player"
	mw "github.com/Sephirode/realDesia/middleware"
	"github.com/Sephirode/realDesia/model"
	"github.com/Sephirode/realDesia/resource"
	"github.com/Sephirode/realDesia/scheduler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	shutdownTimeout    = 10 * time.Second
	cacheSweepEvery    = time.Minute
	rateLimitSweep     = 5 * time.Minute
	rateLimitIdleAfter = 10 * time.Minute
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// ---- Definition tables ----
	catalog, err := resource.NewLoader(cfg.Resource.DataPath).Load()
	if err != nil {
		logger.Fatal("resource load failed", zap.String("path", cfg.Resource.DataPath), zap.Error(err))
	}
	logger.Info("definitions loaded",
		zap.Int("classes", len(catalog.ClassNames())),
		zap.Int("enemies", len(catalog.EnemyNames())),
		zap.Int("skills", len(catalog.SkillNames())),
		zap.Int("equipment", len(catalog.EquipmentNames())),
		zap.Int("consumables", len(catalog.ConsumableNames())))

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	if err := model.AutoMigrate(db); err != nil {
		logger.Fatal("db migrate failed", zap.Error(err))
	}
	logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))

	// ---- Audit ----
	auditSvc := audit.New(db, logger)

	// ---- Cache / PubSub ----
	c, pubsub, err := cache.Open(cfg.Cache)
	if err != nil {
		logger.Fatal("cache init failed", zap.Error(err))
	}
	logger.Info("Cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	// ---- Game Systems ----
	sm := player.NewSessionManager(logger)
	store := player.NewStore(db, catalog)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	scheduler.RegisterAutosave(sched, sm, store, time.Duration(cfg.Game.AutosaveIntervalS)*time.Second)
	if sw, ok := c.(cache.Sweeper); ok {
		scheduler.RegisterSweep(sched, scheduler.CacheSweepTask, cacheSweepEvery, sw.Sweep)
	}

	// ---- Gin HTTP Server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := mw.NewRateLimiter(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst)
	scheduler.RegisterSweep(sched, scheduler.RateLimitSweepTask, rateLimitSweep, func() int {
		return limiter.Sweep(time.Now().Add(-rateLimitIdleAfter))
	})

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(limiter.Middleware())

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": sm.Count()})
	})

	restH := rest.NewHandler(rest.Deps{
		Catalog:  catalog,
		Sessions: sm,
		Store:    store,
		Items:    item.NewEngine(logger),
		Equip:    item.NewEquipService(logger),
		Audit:    auditSvc,
		Cache:    c,
		PubSub:   pubsub,
		Battle:   cfg.Battle,
		Game:     cfg.Game,
		Logger:   logger,
	})
	sseH := sse.NewHandler(pubsub, c, logger)

	api := r.Group("/api")
	restH.Register(api)
	api.GET("/battles/:battle_id/events", sseH.ServeBattle)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		logger.Info("Server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	sched.Stop()
	if n, err := sm.SaveAll(ctx, store); err != nil {
		logger.Warn("final save incomplete", zap.Int("saved", n), zap.Error(err))
	} else {
		logger.Info("sessions saved", zap.Int("count", n))
	}
	auditSvc.Stop(ctx)
}
