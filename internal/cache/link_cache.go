package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"geoqr/internal/geo"
	"geoqr/internal/model"
)

const (
	keyPrefix    = "geolink:"
	readTimeout  = 1 * time.Second
	writeTimeout = 2 * time.Second
	// DefaultTTL 默认缓存时长
	DefaultTTL = 24 * time.Hour
)

// entry 只保存校验位置所需的字段
type entry struct {
	ID             string    `json:"id"`
	DestinationURL string    `json:"destinationUrl"`
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	Radius         float64   `json:"radius"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LinkCache 以 slug 为键的 redis 读穿缓存
// nil 的 *LinkCache 表示未启用缓存, 所有方法都是空操作
type LinkCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewLinkCache client 为 nil 时返回 nil
func NewLinkCache(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *LinkCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LinkCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("link_cache"),
	}
}

// Key 返回 slug 对应的缓存键
func Key(slug string) string {
	return keyPrefix + slug
}

// Get 读取缓存, 任何错误都按未命中处理
func (c *LinkCache) Get(ctx context.Context, slug string) (*model.GeoLink, bool) {
	if c == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, Key(slug)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("读取缓存失败", "slug", slug, "error", err)
		}
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.logger.Warnw("缓存数据损坏", "slug", slug, "error", err)
		c.Delete(ctx, slug)
		return nil, false
	}

	link := &model.GeoLink{
		ID:             e.ID,
		Slug:           slug,
		DestinationURL: e.DestinationURL,
		Radius:         e.Radius,
		CreatedAt:      e.CreatedAt,
	}
	link.SetLocation(geo.Point{Lat: e.Lat, Lng: e.Lng})
	return link, true
}

// Set 写入缓存, 失败只记录日志
func (c *LinkCache) Set(ctx context.Context, link *model.GeoLink) {
	if c == nil || link == nil {
		return
	}

	p := link.Location()
	raw, err := json.Marshal(entry{
		ID:             link.ID,
		DestinationURL: link.DestinationURL,
		Lat:            p.Lat,
		Lng:            p.Lng,
		Radius:         link.Radius,
		CreatedAt:      link.CreatedAt,
	})
	if err != nil {
		c.logger.Warnw("序列化缓存失败", "slug", link.Slug, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := c.client.Set(ctx, Key(link.Slug), raw, c.ttl).Err(); err != nil {
		c.logger.Warnw("写入缓存失败", "slug", link.Slug, "error", err)
	}
}

// Delete 使缓存失效
func (c *LinkCache) Delete(ctx context.Context, slug string) {
	if c == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := c.client.Del(ctx, Key(slug)).Err(); err != nil {
		c.logger.Warnw("删除缓存失败", "slug", slug, "error", err)
	}
}
