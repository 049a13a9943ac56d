package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"geoqr/internal/model"
)

var (
	ErrNotFound      = errors.New("记录不存在")
	ErrDuplicateSlug = errors.New("短码已存在")
)

// LinkRepository 基于 gorm 的 GeoLink 持久化
type LinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository 创建仓储实例
func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// AutoMigrate 建表并创建 slug 唯一索引
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.GeoLink{})
}

// Create 插入新记录, slug 冲突时返回 ErrDuplicateSlug
func (r *LinkRepository) Create(ctx context.Context, link *model.GeoLink) error {
	const op = "repository.Link.Create"

	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s: %w", op, ErrDuplicateSlug)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetBySlug 按短码查询
func (r *LinkRepository) GetBySlug(ctx context.Context, slug string) (*model.GeoLink, error) {
	return r.first(ctx, "repository.Link.GetBySlug", "slug = ?", slug)
}

// GetByID 按 ID 查询
func (r *LinkRepository) GetByID(ctx context.Context, id string) (*model.GeoLink, error) {
	return r.first(ctx, "repository.Link.GetByID", "id = ?", id)
}

func (r *LinkRepository) first(ctx context.Context, op, query string, arg interface{}) (*model.GeoLink, error) {
	var link model.GeoLink
	if err := r.db.WithContext(ctx).Where(query, arg).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &link, nil
}

// SlugExists 检查短码是否已被占用
func (r *LinkRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.GeoLink{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("repository.Link.SlugExists: %w", err)
	}
	return count > 0, nil
}

// CountByOwner 统计所有者在 since 之后创建的链接数, since 为零值时不限时间
func (r *LinkRepository) CountByOwner(ctx context.Context, owner model.Owner, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.GeoLink{}).
		Scopes(ownerScope(owner), createdSince(since)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("repository.Link.CountByOwner: %w", err)
	}
	return count, nil
}

// ListByOwner 按创建时间倒序列出所有者的链接
func (r *LinkRepository) ListByOwner(ctx context.Context, owner model.Owner, since time.Time) ([]model.GeoLink, error) {
	links := make([]model.GeoLink, 0)
	err := r.db.WithContext(ctx).
		Scopes(ownerScope(owner), createdSince(since)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("repository.Link.ListByOwner: %w", err)
	}
	return links, nil
}

// Update 按列更新, 调用方负责只传入允许修改的列
func (r *LinkRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.GeoLink{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("repository.Link.Update: %w", err)
	}
	return nil
}

// Delete 物理删除
func (r *LinkRepository) Delete(ctx context.Context, id string) error {
	const op = "repository.Link.Delete"

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.GeoLink{})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// IncrementScanCount 原子地将扫描次数加一并返回最新值
func (r *LinkRepository) IncrementScanCount(ctx context.Context, id string) (int64, error) {
	const op = "repository.Link.IncrementScanCount"

	res := r.db.WithContext(ctx).
		Model(&model.GeoLink{}).
		Where("id = ?", id).
		UpdateColumn("scan_count", gorm.Expr("scan_count + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("%s: %w", op, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.GeoLink{}).Where("id = ?", id).Pluck("scan_count", &count).Error; err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// PurgeCreatedBefore 删除 cutoff 之前创建的记录, 返回删除条数
func (r *LinkRepository) PurgeCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.GeoLink{})
	if res.Error != nil {
		return 0, fmt.Errorf("repository.Link.PurgeCreatedBefore: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ownerScope 绑定用户时按 user_id 过滤, 否则按匿名标识
// 匿名标识只匹配未绑定用户的记录, 与 GeoLink.OwnedBy 一致
func ownerScope(owner model.Owner) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if owner.UserID != "" {
			return db.Where("user_id = ?", owner.UserID)
		}
		return db.Where("created_by = ?", owner.CreatedBy).
			Where("user_id = '' OR user_id IS NULL")
	}
}

func createdSince(since time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if since.IsZero() {
			return db
		}
		return db.Where("created_at >= ?", since)
	}
}
