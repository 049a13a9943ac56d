package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "geoqr/docs"
	"geoqr/internal/app"
	"geoqr/internal/config"
	"geoqr/internal/handler"
	"geoqr/internal/middleware"
	"geoqr/internal/retention"
	"geoqr/internal/validation"
	auth "geoqr/pkg/jwt"
	"geoqr/pkg/logger"
)

// @title GeoQR API
// @version 1.0
// @description 地理围栏链接服务: 访客位于指定半径内才能打开目标地址
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("配置加载失败: %v", err))
	}

	app.InitLogger(cfg)
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := zap.S()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	sugaredLogger.Infof("✅ 数据库连接成功 (%s)", cfg.Database.Driver)
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	rdb, err := app.OpenRedis(cfg)
	switch {
	case err != nil:
		sugaredLogger.Warnf("缓存连接失败, 不使用缓存: %v", err)
	case rdb != nil:
		defer func() {
			if err := rdb.Close(); err != nil {
				sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
			}
		}()
		sugaredLogger.Info("✅ 缓存连接成功")
	}

	linkService := app.NewLinkService(cfg, db, rdb, sugaredLogger)

	if cfg.Retention.Enabled && cfg.Links.TTL > 0 {
		janitor := retention.NewJanitor(linkService, cfg.Retention.Interval, sugaredLogger)
		janitor.Start()
		defer janitor.Stop()
		sugaredLogger.Info("✅ 过期链接清理已启动")
	}

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)

	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.Register(); err != nil {
		sugaredLogger.Fatalf("注册校验规则失败: %v", err)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger))

	linkHandler := handler.NewGeoLinkHandler(linkService, sugaredLogger)
	registerRoutes(router, linkHandler,
		middleware.OptionalAuth(tokenManager),
		middleware.RateLimit(ctx, &cfg.RateLimit, sugaredLogger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
		sugaredLogger.Infof("📚 Swagger 文档地址: http://localhost:%d/swagger/index.html", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			sugaredLogger.Errorf("服务启动失败: %v", err)
		}
	case <-ctx.Done():
		sugaredLogger.Info("收到退出信号, 正在关闭服务...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugaredLogger.Errorf("服务关闭失败: %v", err)
	}
	sugaredLogger.Info("服务已退出")
}

func registerRoutes(
	router *gin.Engine,
	linkHandler *handler.GeoLinkHandler,
	authMiddleware, rateLimitMiddleware gin.HandlerFunc,
) {
	router.GET("/health", linkHandler.HealthCheck)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.Use(rateLimitMiddleware, authMiddleware)
	linkHandler.RegisterRoutes(api)
}
