package model

import (
	"time"

	"geoqr/internal/geo"
)

// GeoLink 地理围栏链接, 访客位于 radius 米范围内才能拿到 DestinationURL
// 坐标按 (经度, 纬度) 存储, 读写统一走 SetLocation / Location
type GeoLink struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Slug           string    `gorm:"size:16;uniqueIndex;not null" json:"slug"`
	DestinationURL string    `gorm:"type:text;not null" json:"destinationUrl"`
	Longitude      float64   `gorm:"not null" json:"-"`
	Latitude       float64   `gorm:"not null" json:"-"`
	Geohash        string    `gorm:"size:12;index" json:"geohash"`
	Radius         float64   `gorm:"not null" json:"radius"`
	UserID         string    `gorm:"size:64;index" json:"user,omitempty"`
	CreatedBy      string    `gorm:"size:128;index;not null" json:"createdBy"`
	ScanCount      int64     `gorm:"not null;default:0" json:"scanCount"`
	CreatedAt      time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName 指定表名
func (GeoLink) TableName() string {
	return "geo_links"
}

// SetLocation 写入 API 坐标并同步 geohash
func (l *GeoLink) SetLocation(p geo.Point) {
	l.Longitude = p.Lng
	l.Latitude = p.Lat
	l.Geohash = geo.Geohash(p)
}

// Location 以 API 顺序返回坐标
func (l *GeoLink) Location() geo.Point {
	return geo.Point{Lat: l.Latitude, Lng: l.Longitude}
}

// LocationColumns 返回按存储顺序更新坐标所需的列
func LocationColumns(p geo.Point) map[string]interface{} {
	return map[string]interface{}{
		"longitude": p.Lng,
		"latitude":  p.Lat,
		"geohash":   geo.Geohash(p),
	}
}

// ExpiredAt 判断在 now 时刻记录是否已超过保留期, ttl <= 0 表示永不过期
// 与仓储层 created_at >= now-ttl 的过滤条件保持一致
func (l *GeoLink) ExpiredAt(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.After(l.CreatedAt.Add(ttl))
}

// OwnedBy 判断请求方是否为链接所有者
// 记录绑定了用户时只认用户 ID, 否则比较匿名标识 createdBy
func (l *GeoLink) OwnedBy(o Owner) bool {
	if l.UserID != "" {
		return o.UserID == l.UserID
	}
	return o.CreatedBy != "" && o.CreatedBy == l.CreatedBy
}
