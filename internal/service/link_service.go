package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"geoqr/internal/geo"
	"geoqr/internal/model"
	"geoqr/internal/repository"
	"geoqr/internal/shortcode"
)

const (
	// DefaultMinRadius 允许的最小半径(米)
	DefaultMinRadius = 50.0
	// DefaultQRBaseURL 公共二维码渲染服务, 末尾拼接转义后的链接地址
	DefaultQRBaseURL = "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data="

	// slug 冲突时最多写入次数
	createAttempts = 2
)

// LinkStore 链接持久化
type LinkStore interface {
	Create(ctx context.Context, link *model.GeoLink) error
	GetBySlug(ctx context.Context, slug string) (*model.GeoLink, error)
	GetByID(ctx context.Context, id string) (*model.GeoLink, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	CountByOwner(ctx context.Context, owner model.Owner, since time.Time) (int64, error)
	ListByOwner(ctx context.Context, owner model.Owner, since time.Time) ([]model.GeoLink, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	IncrementScanCount(ctx context.Context, id string) (int64, error)
	PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// LinkCache slug 元数据缓存, 实现需自行吞掉错误
type LinkCache interface {
	Get(ctx context.Context, slug string) (*model.GeoLink, bool)
	Set(ctx context.Context, link *model.GeoLink)
	Delete(ctx context.Context, slug string)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*model.GeoLink, bool) { return nil, false }
func (noopCache) Set(context.Context, *model.GeoLink)                {}
func (noopCache) Delete(context.Context, string)                     {}

// SlugGenerator 生成未被占用的短码
type SlugGenerator interface {
	EnsureUnique(ctx context.Context, exists shortcode.ExistsFunc) (string, error)
}

// Options LinkService 依赖与参数
type Options struct {
	Store         LinkStore
	Cache         LinkCache
	Slugs         SlugGenerator
	Quota         QuotaPolicy
	TTL           time.Duration
	MinRadius     float64
	Now           func() time.Time
	Logger        *zap.SugaredLogger
	PublicBaseURL string
	QRBaseURL     string
}

// LinkService 地理链接业务逻辑
type LinkService struct {
	store         LinkStore
	cache         LinkCache
	slugs         SlugGenerator
	quota         QuotaPolicy
	ttl           time.Duration
	minRadius     float64
	now           func() time.Time
	logger        *zap.SugaredLogger
	publicBaseURL string
	qrBaseURL     string
}

// CreateInput 创建请求, Radius 为 0 视为缺失
type CreateInput struct {
	DestinationURL string
	Location       *geo.Point
	Radius         float64
	Owner          model.Owner
	Plan           string
}

// CreateResult 创建结果
type CreateResult struct {
	Link      *model.GeoLink
	SystemURL string
	QRCode    string
}

// Metadata 访客页面需要的公开信息, 不含目标地址
type Metadata struct {
	Location geo.Point
	Radius   float64
}

// VerifyResult 位置校验通过后的结果
type VerifyResult struct {
	DestinationURL string
	ScanCount      int64
}

// UpdateInput nil 字段保持不变
type UpdateInput struct {
	DestinationURL *string
	Radius         *float64
	Location       *geo.Point
}

// NewLinkService 创建服务实例
func NewLinkService(opts Options) *LinkService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.MinRadius <= 0 {
		opts.MinRadius = DefaultMinRadius
	}
	if opts.QRBaseURL == "" {
		opts.QRBaseURL = DefaultQRBaseURL
	}
	if opts.Cache == nil {
		opts.Cache = noopCache{}
	}
	if opts.Slugs == nil {
		opts.Slugs = shortcode.NewGenerator(0, 0, opts.Logger)
	}
	return &LinkService{
		store:         opts.Store,
		cache:         opts.Cache,
		slugs:         opts.Slugs,
		quota:         opts.Quota,
		ttl:           opts.TTL,
		minRadius:     opts.MinRadius,
		now:           opts.Now,
		logger:        opts.Logger.Named("link_service"),
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		qrBaseURL:     opts.QRBaseURL,
	}
}

// Create 校验参数和配额后生成短码并保存
func (s *LinkService) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	owner := in.Owner
	if owner.CreatedBy == "" {
		owner.CreatedBy = owner.UserID
	}
	dest := strings.TrimSpace(in.DestinationURL)

	if dest == "" || in.Location == nil || in.Radius == 0 || owner.IsZero() {
		return nil, invalid(ReasonMissingFields, "缺少必填字段")
	}
	if err := geo.ValidatePoint(*in.Location); err != nil {
		return nil, invalid(ReasonInvalidLocation, err.Error())
	}
	if err := validateDestination(dest); err != nil {
		return nil, err
	}
	if err := s.validateRadius(in.Radius); err != nil {
		return nil, err
	}

	existing, err := s.store.CountByOwner(ctx, owner, s.cutoff())
	if err != nil {
		return nil, fmt.Errorf("统计链接数量失败: %w", err)
	}
	if !s.quota.Allows(in.Plan, existing) {
		return nil, ErrQuotaExceeded
	}

	for attempt := 1; attempt <= createAttempts; attempt++ {
		slug, err := s.slugs.EnsureUnique(ctx, s.store.SlugExists)
		if err != nil {
			if errors.Is(err, shortcode.ErrExhausted) {
				return nil, fmt.Errorf("%w: %v", ErrConflict, err)
			}
			return nil, fmt.Errorf("生成短码失败: %w", err)
		}

		now := s.now()
		link := &model.GeoLink{
			ID:             uuid.NewString(),
			Slug:           slug,
			DestinationURL: dest,
			Radius:         in.Radius,
			UserID:         owner.UserID,
			CreatedBy:      owner.CreatedBy,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		link.SetLocation(*in.Location)

		err = s.store.Create(ctx, link)
		if err == nil {
			s.logger.Infow("创建地理链接", "slug", slug, "owner", owner.CreatedBy, "radius", in.Radius)
			systemURL := s.systemURL(slug)
			return &CreateResult{
				Link:      link,
				SystemURL: systemURL,
				QRCode:    s.qrBaseURL + url.QueryEscape(systemURL),
			}, nil
		}
		if !errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, fmt.Errorf("保存链接失败: %w", err)
		}
		s.logger.Warnw("短码写入冲突", "slug", slug, "attempt", attempt)
	}
	return nil, ErrConflict
}

// GetMetadataBySlug 返回访客页面需要的坐标和半径
func (s *LinkService) GetMetadataBySlug(ctx context.Context, slug string) (*Metadata, error) {
	link, err := s.load(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &Metadata{Location: link.Location(), Radius: link.Radius}, nil
}

// Verify 访客位于半径内时计数加一并返回目标地址
func (s *LinkService) Verify(ctx context.Context, slug string, visitor geo.Point) (*VerifyResult, error) {
	if err := geo.ValidatePoint(visitor); err != nil {
		return nil, invalid(ReasonInvalidLocation, err.Error())
	}

	link, err := s.load(ctx, slug)
	if err != nil {
		return nil, err
	}

	if !geo.IsWithinRadius(visitor, link.Location(), link.Radius) {
		s.logger.Debugw("访客位于范围外", "slug", slug,
			"distance", geo.Distance(visitor, link.Location()), "radius", link.Radius)
		return nil, ErrOutsideArea
	}

	count, err := s.store.IncrementScanCount(ctx, link.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.cache.Delete(ctx, slug)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("更新扫描次数失败: %w", err)
	}
	return &VerifyResult{DestinationURL: link.DestinationURL, ScanCount: count}, nil
}

// ListByOwner 列出所有者未过期的链接, 最新的在前
func (s *LinkService) ListByOwner(ctx context.Context, owner model.Owner) ([]model.GeoLink, error) {
	if owner.IsZero() {
		return nil, invalid(ReasonMissingOwner, "缺少 userId 或 createdBy")
	}
	links, err := s.store.ListByOwner(ctx, owner, s.cutoff())
	if err != nil {
		return nil, fmt.Errorf("查询链接失败: %w", err)
	}
	return links, nil
}

// Update 只有所有者可以修改, 只写入传入的字段
func (s *LinkService) Update(ctx context.Context, id string, in UpdateInput, requester model.Owner) (*model.GeoLink, error) {
	link, err := s.ownedLink(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if in.DestinationURL != nil {
		dest := strings.TrimSpace(*in.DestinationURL)
		if err := validateDestination(dest); err != nil {
			return nil, err
		}
		fields["destination_url"] = dest
	}
	if in.Radius != nil {
		if err := s.validateRadius(*in.Radius); err != nil {
			return nil, err
		}
		fields["radius"] = *in.Radius
	}
	if in.Location != nil {
		if err := geo.ValidatePoint(*in.Location); err != nil {
			return nil, invalid(ReasonInvalidLocation, err.Error())
		}
		for k, v := range model.LocationColumns(*in.Location) {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		return link, nil
	}
	fields["updated_at"] = s.now()

	if err := s.store.Update(ctx, link.ID, fields); err != nil {
		return nil, fmt.Errorf("更新链接失败: %w", err)
	}
	s.cache.Delete(ctx, link.Slug)

	updated, err := s.store.GetByID(ctx, link.ID)
	if err != nil {
		return nil, s.notFoundOr(err, "读取链接失败")
	}
	s.logger.Infow("更新地理链接", "slug", link.Slug, "fields", len(fields)-1)
	return updated, nil
}

// Delete 只有所有者可以删除
func (s *LinkService) Delete(ctx context.Context, id string, requester model.Owner) error {
	link, err := s.ownedLink(ctx, id, requester)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, link.ID); err != nil {
		return s.notFoundOr(err, "删除链接失败")
	}
	s.cache.Delete(ctx, link.Slug)
	s.logger.Infow("删除地理链接", "slug", link.Slug)
	return nil
}

// PurgeExpired 删除超过保留期的链接, TTL 为 0 时不做任何事
func (s *LinkService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	n, err := s.store.PurgeCreatedBefore(ctx, s.cutoff())
	if err != nil {
		return 0, fmt.Errorf("清理过期链接失败: %w", err)
	}
	return n, nil
}

// load 先查缓存再查库, 过期记录按不存在处理
func (s *LinkService) load(ctx context.Context, slug string) (*model.GeoLink, error) {
	link, ok := s.cache.Get(ctx, slug)
	if !ok {
		var err error
		link, err = s.store.GetBySlug(ctx, slug)
		if err != nil {
			return nil, s.notFoundOr(err, "查询链接失败")
		}
		if !link.ExpiredAt(s.now(), s.ttl) {
			s.cache.Set(ctx, link)
		}
	}
	if link.ExpiredAt(s.now(), s.ttl) {
		return nil, ErrNotFound
	}
	return link, nil
}

func (s *LinkService) ownedLink(ctx context.Context, id string, requester model.Owner) (*model.GeoLink, error) {
	link, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFoundOr(err, "查询链接失败")
	}
	if link.ExpiredAt(s.now(), s.ttl) {
		return nil, ErrNotFound
	}
	if !link.OwnedBy(requester) {
		return nil, ErrForbidden
	}
	return link, nil
}

func (s *LinkService) notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (s *LinkService) validateRadius(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < s.minRadius {
		return invalid(ReasonRadiusTooSmall, fmt.Sprintf("半径不能小于 %.0f 米", s.minRadius))
	}
	return nil
}

func (s *LinkService) cutoff() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(-s.ttl)
}

func (s *LinkService) systemURL(slug string) string {
	return s.publicBaseURL + "/l/" + slug
}

// validateDestination 只接受带主机名的 http(s) 绝对地址
func validateDestination(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid(ReasonInvalidURL, "目标地址必须是 http 或 https 链接")
	}
	return nil
}
