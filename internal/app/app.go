package app

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"geoqr/internal/cache"
	"geoqr/internal/config"
	"geoqr/internal/repository"
	"geoqr/internal/service"
	"geoqr/internal/shortcode"
	"geoqr/pkg/database"
	"geoqr/pkg/logger"
	"geoqr/pkg/redis"
)

// InitLogger 按配置初始化全局日志
func InitLogger(cfg *config.Config) {
	logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
}

// OpenDatabase 连接数据库并迁移表结构
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(database.Options{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		Charset:  cfg.Database.Charset,
		SSLMode:  cfg.Database.SSLMode,
		Path:     cfg.Database.Path,
	})
	if err != nil {
		return nil, err
	}
	if err := repository.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

// OpenRedis 连接缓存, 未配置时返回 nil
func OpenRedis(cfg *config.Config) (*goredis.Client, error) {
	return redis.NewRedisClient(redis.Options{
		Host:     cfg.Cache.Host,
		Port:     cfg.Cache.Port,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
}

// NewLinkService 组装 LinkService, rdb 可以为 nil
func NewLinkService(cfg *config.Config, db *gorm.DB, rdb *goredis.Client, log *zap.SugaredLogger) *service.LinkService {
	opts := service.Options{
		Store:         repository.NewLinkRepository(db),
		Slugs:         shortcode.NewGenerator(cfg.Slug.Length, cfg.Slug.MaxAttempts, log),
		Quota:         service.QuotaPolicy{Default: cfg.Quota.Default, Plans: cfg.Quota.Plans},
		TTL:           cfg.Links.TTL,
		MinRadius:     cfg.Links.MinRadius,
		Logger:        log,
		PublicBaseURL: cfg.Links.PublicBaseURL,
		QRBaseURL:     cfg.Links.QRBaseURL,
	}
	// 避免把 nil 指针装进接口
	if linkCache := cache.NewLinkCache(rdb, cfg.Cache.TTL, log); linkCache != nil {
		opts.Cache = linkCache
	}
	return service.NewLinkService(opts)
}
